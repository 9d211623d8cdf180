package justgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// Defaults injected into new member profiles when the caller omits them.
const (
	DefaultCountry      = "Ireland"
	DefaultMemberStatus = "Pending"
	DefaultGender       = "Not Specified"
)

// requiredCreateFields must be present, after mapping, to create a member.
var requiredCreateFields = []string{"firstName", "lastName", "emailAddress", "dateOfBirth"}

// memberFieldAliases maps caller keys to the JustGo member schema.
var memberFieldAliases = map[string]string{
	"first_name":     "firstName",
	"firstname":      "firstName",
	"given_name":     "firstName",
	"last_name":      "lastName",
	"lastname":       "lastName",
	"surname":        "lastName",
	"family_name":    "lastName",
	"email":          "emailAddress",
	"email_address":  "emailAddress",
	"dob":            "dateOfBirth",
	"date_of_birth":  "dateOfBirth",
	"birth_date":     "dateOfBirth",
	"phone":          "mobileNumber",
	"mobile":         "mobileNumber",
	"mobile_number":  "mobileNumber",
	"address_line_1": "address1",
	"address1":       "address1",
	"address_line_2": "address2",
	"address2":       "address2",
	"city":           "town",
	"town":           "town",
	"county":         "county",
	"postcode":       "postCode",
	"post_code":      "postCode",
	"eircode":        "postCode",
	"country":        "country",
	"gender":         "gender",
	"status":         "memberStatus",
	"member_status":  "memberStatus",
}

// WritesAllowed reports whether write operations may be sent under ctx.
// A write mode on the context wins over the configured default.
func (c *Client) WritesAllowed(ctx context.Context) bool {
	return domain.WritesAllowed(ctx, !c.cfg.AllowWrites)
}

func (c *Client) checkWritable(ctx context.Context, op string) error {
	if c.WritesAllowed(ctx) {
		return nil
	}
	logger.Warn("justgo: %s blocked, read-only mode is enabled", op)
	return fmt.Errorf("%s: %w", op, domain.ErrReadOnlyMode)
}

// CreateMemberProfile creates a member from caller data. Keys are mapped
// with FormatMemberDataForCreation and the required fields checked before
// any request is sent.
func (c *Client) CreateMemberProfile(ctx context.Context, data map[string]any) (*domain.Member, error) {
	if err := c.checkWritable(ctx, "create member profile"); err != nil {
		return nil, err
	}

	payload := FormatMemberDataForCreation(data)
	var missing []string
	for _, field := range requiredCreateFields {
		if _, ok := payload[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.FieldError{Fields: missing}
	}

	raw, err := c.request(ctx, http.MethodPost, endpointMembers, nil, payload)
	if err != nil {
		return nil, err
	}

	member, err := decodeData[*domain.Member](raw)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, newError(KindAPI, http.StatusOK, "create member returned no data")
	}
	logger.Info("justgo: created member %s", member.MemberID)
	return member, nil
}

// UpdateMemberProfile updates the given fields of a member.
func (c *Client) UpdateMemberProfile(ctx context.Context, memberID string, data map[string]any) (*domain.Member, error) {
	if err := c.checkWritable(ctx, "update member profile"); err != nil {
		return nil, err
	}
	if memberID == "" {
		return nil, fmt.Errorf("update member profile: %w", domain.ErrInvalidInput)
	}

	payload := FormatMemberDataForUpdate(data)
	if len(payload) == 0 {
		return nil, fmt.Errorf("update member profile: no fields to update: %w", domain.ErrInvalidInput)
	}

	raw, err := c.request(ctx, http.MethodPut, endpointMembers+"/"+url.PathEscape(memberID), nil, payload)
	if err != nil {
		return nil, err
	}

	member, err := decodeData[*domain.Member](raw)
	if err != nil {
		return nil, err
	}
	if member == nil {
		// Some tenants answer an update with an empty body.
		member = &domain.Member{MemberID: domain.ID(memberID)}
	}
	return member, nil
}

// FormatMemberDataForCreation maps data to the JustGo schema and fills
// country, memberStatus and gender when absent.
func FormatMemberDataForCreation(data map[string]any) map[string]any {
	out := FormatMemberDataForUpdate(data)
	setDefault(out, "country", DefaultCountry)
	setDefault(out, "memberStatus", DefaultMemberStatus)
	setDefault(out, "gender", DefaultGender)
	return out
}

// FormatMemberDataForUpdate maps aliased keys to the JustGo schema. Unknown
// keys pass through, empty values are dropped and times become dates.
// A key already in schema form wins over an alias for the same field.
func FormatMemberDataForUpdate(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))

	// Sorted so alias collisions resolve the same way every time.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := normaliseValue(data[key])
		if !ok {
			continue
		}
		target, aliased := memberFieldAliases[strings.ToLower(key)]
		if !aliased {
			out[key] = value
			continue
		}
		if target != key {
			if cv, canonical := data[target]; canonical {
				if _, ok := normaliseValue(cv); ok {
					continue
				}
			}
		}
		if _, taken := out[target]; taken {
			continue
		}
		out[target] = value
	}
	return out
}

func normaliseValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, false
		}
		return val, true
	case time.Time:
		if val.IsZero() {
			return nil, false
		}
		return val.Format(domain.CredentialDateLayout), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil, false
		}
		return val.Format(domain.CredentialDateLayout), true
	default:
		return v, true
	}
}

func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
