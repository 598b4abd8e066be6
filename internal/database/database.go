package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Open picks the backend from the DSN scheme once, at composition time.
// The logger traces Postgres queries and may be nil.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (domain.Repository, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pool, err := Connect(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return New(pool), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//"))
	case strings.HasPrefix(dsn, "file:"):
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage dsn %q", redact(dsn))
	}
}

var productColumns = map[domain.ProductField]string{
	domain.FieldName:        "name",
	domain.FieldDescription: "description",
	domain.FieldPrice:       "price",
	domain.FieldImage:       "image_ref",
	domain.FieldDownload:    "download_ref",
	domain.FieldKeys:        "keys_ref",
	domain.FieldQuantity:    "quantity",
	domain.FieldCategory:    "category",
}

// fieldValue validates an admin-supplied value and converts it into the
// representation stored in the column.
func fieldValue(field domain.ProductField, value any) (string, any, error) {
	col, ok := productColumns[field]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown product field %q", domain.ErrInvalidInput, field)
	}
	switch field {
	case domain.FieldPrice:
		var d decimal.Decimal
		switch v := value.(type) {
		case decimal.Decimal:
			d = v
		case string:
			parsed, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return "", nil, fmt.Errorf("%w: price %q", domain.ErrInvalidInput, v)
			}
			d = parsed
		default:
			return "", nil, fmt.Errorf("%w: price type %T", domain.ErrInvalidInput, value)
		}
		if d.IsNegative() {
			return "", nil, fmt.Errorf("%w: negative price", domain.ErrInvalidInput)
		}
		return col, d.String(), nil
	case domain.FieldQuantity:
		q, ok := value.(int)
		if !ok || q < 0 {
			return "", nil, fmt.Errorf("%w: quantity %v", domain.ErrInvalidInput, value)
		}
		return col, q, nil
	case domain.FieldCategory:
		s, ok := value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: category type %T", domain.ErrInvalidInput, value)
		}
		if strings.TrimSpace(s) == "" {
			s = domain.DefaultCategory
		}
		return col, s, nil
	default:
		s, ok := value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s type %T", domain.ErrInvalidInput, field, value)
		}
		return col, s, nil
	}
}

func joinKeys(keys []string) string { return strings.Join(keys, "\n") }

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func activatedFlag(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
	}
	return dsn
}
