package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"storeadmin/internal/models"

	"github.com/shopspring/decimal"
)

// epoch is the date given to orders whose date cannot be read, so they sort last.
var epoch = time.Unix(0, 0).UTC()

// Layouts tried for string order dates. The storefront writes DD/MM/YYYY
// followed by an optional time, which is ignored.
var dateOnlyLayouts = []string{"2/1/2006", "2006-01-02"}

// ParseOrderDate normalizes an order date. It accepts time.Time values (as
// returned for stored timestamps), {seconds, nanoseconds} maps, RFC 3339
// strings, and "DD/MM/YYYY[ HH:MM...]" strings.
func ParseOrderDate(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return epoch, fmt.Errorf("missing order date")
		}
		return t.UTC(), nil
	case map[string]interface{}:
		return parseTimestampMap(t)
	case string:
		return parseDateString(t)
	case nil:
		return epoch, fmt.Errorf("missing order date")
	default:
		return epoch, fmt.Errorf("unsupported order date type %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	prefix := s
	if i := strings.IndexAny(s, " T,"); i >= 0 {
		prefix = s[:i]
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, prefix); err == nil {
			return t, nil
		}
	}
	return epoch, fmt.Errorf("unparseable order date %q", s)
}

func parseTimestampMap(m map[string]interface{}) (time.Time, error) {
	secs, ok := m["seconds"]
	if !ok {
		secs, ok = m["_seconds"]
	}
	if !ok {
		return epoch, fmt.Errorf("timestamp map without seconds")
	}
	sec, err := toInt64(secs)
	if err != nil {
		return epoch, fmt.Errorf("invalid timestamp seconds: %w", err)
	}
	nanos, _ := toInt64(m["nanoseconds"])
	return time.Unix(sec, nanos).UTC(), nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

// ParseAmount normalizes a money amount stored as a number or as a string with
// an optional currency symbol and thousands separators ("₹1,200.50").
func ParseAmount(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, n)
		if cleaned == "" {
			if strings.TrimSpace(n) == "" {
				return decimal.Zero, nil
			}
			return decimal.Zero, fmt.Errorf("unparseable amount %q", n)
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unparseable amount %q: %w", n, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

func parseQuantity(values ...interface{}) int {
	for _, v := range values {
		if v == nil {
			continue
		}
		n, err := toInt64(v)
		if err == nil {
			return int(n)
		}
	}
	return 0
}

// projectOrder builds the dashboard view of a stored order. Malformed dates and
// amounts are logged and replaced, never returned as errors.
func projectOrder(o models.Order) models.OrderProjection {
	rawDate := o.OrderDetails.OrderDate
	if rawDate == nil {
		rawDate = o.CreatedAt
	}
	date, err := ParseOrderDate(rawDate)
	if err != nil {
		log.Printf("Order %s (user %s): %v; using %s", o.ID, o.UserID, err, epoch.Format("2006-01-02"))
		date = epoch
	}

	p := models.OrderProjection{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderStatus:     o.OrderStatus,
		OrderDate:       date,
		OrderDateText:   dateText(rawDate),
		Customer:        o.Customer,
		Payment:         o.OrderDetails.Payment,
		Delivery:        o.OrderDetails.Delivery,
		DeliveryAddress: o.DeliveryAddress,
		Items:           make([]models.OrderLine, 0, len(o.Items)),
		Totals: models.OrderTotals{
			Subtotal: amount(o, "subtotal", o.Totals.Subtotal),
			Tax:      amount(o, "tax", o.Totals.Tax),
			Shipping: amount(o, "shipping", o.Totals.Shipping),
			Discount: amount(o, "discount", o.Totals.Discount),
			Total:    amount(o, "total", o.Totals.Total),
		},
	}
	for _, item := range o.Items {
		p.Items = append(p.Items, models.OrderLine{
			Name:     item.CartFoodName,
			Amount:   amount(o, "cartFoodAmount", item.CartFoodAmount),
			Image:    item.CartFoodImage,
			Quantity: parseQuantity(item.CartQuantity, item.CartFoodQuantity),
		})
	}
	return p
}

func amount(o models.Order, field string, v interface{}) decimal.Decimal {
	d, err := ParseAmount(v)
	if err != nil {
		log.Printf("Order %s (user %s): %s: %v", o.ID, o.UserID, field, err)
	}
	return d
}

func dateText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format("02/01/2006 15:04")
	case nil:
		return ""
	default:
		if d, err := ParseOrderDate(v); err == nil {
			return d.Format("02/01/2006 15:04")
		}
		return fmt.Sprint(v)
	}
}
