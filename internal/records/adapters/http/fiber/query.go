package fiber

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bot-metrics-service/internal/records/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

const DateLayout = time.DateOnly

var ErrInvalidQuery = errors.New("invalid query")

// ParseDate parses an optional YYYY-MM-DD value; "" yields nil.
func ParseDate(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidQuery, name)
	}
	return &t, nil
}

// SplitList splits a comma separated query value, dropping blanks.
func SplitList(value string) []string {
	return lo.Compact(lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// ParseSelection reads from, to, groups, bots and products from the query
// string. explicit reports whether any of them was given.
func ParseSelection(c *fiber.Ctx) (sel domain.Selection, explicit bool, err error) {
	for _, k := range []string{"from", "to", "groups", "bots", "products"} {
		if c.Query(k) != "" {
			explicit = true
		}
	}

	if sel.From, err = ParseDate("from", c.Query("from")); err != nil {
		return domain.Selection{}, false, err
	}
	if sel.To, err = ParseDate("to", c.Query("to")); err != nil {
		return domain.Selection{}, false, err
	}
	if sel.From != nil && sel.To != nil && sel.From.After(*sel.To) {
		return domain.Selection{}, false, fmt.Errorf("%w: from is after to", ErrInvalidQuery)
	}

	sel.Groups = SplitList(c.Query("groups"))
	sel.Bots = SplitList(c.Query("bots"))
	sel.Products = SplitList(c.Query("products"))

	return sel, explicit, nil
}

func selectionFromRequest(req SelectionRequest) (domain.Selection, error) {
	from, err := ParseDate("from", req.From)
	if err != nil {
		return domain.Selection{}, err
	}
	to, err := ParseDate("to", req.To)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{
		From:     from,
		To:       to,
		Groups:   req.Groups,
		Bots:     req.Bots,
		Products: req.Products,
	}, nil
}

func selectionToResponse(sel domain.Selection) SelectionResponse {
	resp := SelectionResponse{
		Groups:   sel.Groups,
		Bots:     sel.Bots,
		Products: sel.Products,
	}
	if sel.From != nil {
		resp.From = sel.From.Format(DateLayout)
	}
	if sel.To != nil {
		resp.To = sel.To.Format(DateLayout)
	}
	return resp
}
