package paydunya

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Callback statuses as reported by the gateway.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ErrUnparsableCallback means the body matched none of the known shapes.
var ErrUnparsableCallback = errors.New("unparsable paydunya callback payload")

// CustomData is the metadata attached to an invoice at creation time and
// echoed back in the callback.
type CustomData struct {
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	ListingID   string `json:"listing_id"`
	BoostOption string `json:"boost_option"`
	Credits     int    `json:"credits"`
	PackName    string `json:"pack_name"`
	AppName     string `json:"app_name"`
}

// CallbackEvent is the normalized view of an IPN callback, whichever wire
// shape it arrived in.
type CallbackEvent struct {
	Status     string
	Token      string
	CustomData CustomData
}

// rawCustomData tolerates credits arriving as a JSON number or a string.
type rawCustomData struct {
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	ListingID   string          `json:"listing_id"`
	BoostOption string          `json:"boost_option"`
	Credits     json.RawMessage `json:"credits"`
	PackName    string          `json:"pack_name"`
	AppName     string          `json:"app_name"`
}

func (r rawCustomData) toCustomData() CustomData {
	return CustomData{
		UserID:      r.UserID,
		Type:        r.Type,
		ListingID:   r.ListingID,
		BoostOption: r.BoostOption,
		Credits:     flexibleInt(r.Credits),
		PackName:    r.PackName,
		AppName:     r.AppName,
	}
}

func flexibleInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

type callbackPayload struct {
	Status     string         `json:"status"`
	Token      string         `json:"token"`
	CustomData *rawCustomData `json:"custom_data"`
	Invoice    *struct {
		Token      string         `json:"token"`
		Status     string         `json:"status"`
		CustomData *rawCustomData `json:"custom_data"`
	} `json:"invoice"`
}

func (p callbackPayload) toEvent() (*CallbackEvent, bool) {
	ev := &CallbackEvent{Status: p.Status, Token: p.Token}
	if p.CustomData != nil {
		ev.CustomData = p.CustomData.toCustomData()
	}
	if p.Invoice != nil {
		if ev.Token == "" {
			ev.Token = p.Invoice.Token
		}
		if ev.Status == "" {
			ev.Status = p.Invoice.Status
		}
		if p.CustomData == nil && p.Invoice.CustomData != nil {
			ev.CustomData = p.Invoice.CustomData.toCustomData()
		}
	}
	if ev.Token == "" && ev.Status == "" {
		return nil, false
	}
	return ev, true
}

// ParseCallback decodes an IPN body. PayDunya delivers callbacks either as
// JSON or as form-encoded data, sometimes with the JSON document nested in a
// "data" form field, so all three shapes are tried in turn.
func ParseCallback(body []byte, contentType string) (*CallbackEvent, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, ErrUnparsableCallback
	}

	if !strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if ev, err := parseJSONCallback([]byte(trimmed)); err == nil {
			return ev, nil
		}
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		if ev, jerr := parseJSONCallback([]byte(trimmed)); jerr == nil {
			return ev, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnparsableCallback, err)
	}

	if data := values.Get("data"); data != "" {
		if ev, err := parseJSONCallback([]byte(data)); err == nil {
			return ev, nil
		}
	}

	if ev, err := parseFormCallback(values); err == nil {
		return ev, nil
	}

	// Some deliveries set a form content type but ship a raw JSON body.
	return parseJSONCallback([]byte(trimmed))
}

func parseJSONCallback(body []byte) (*CallbackEvent, error) {
	var payload callbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableCallback, err)
	}
	ev, ok := payload.toEvent()
	if !ok {
		return nil, ErrUnparsableCallback
	}
	return ev, nil
}

func parseFormCallback(values url.Values) (*CallbackEvent, error) {
	ev := &CallbackEvent{
		Status: firstValue(values, "status", "invoice[status]", "data[status]"),
		Token:  firstValue(values, "token", "invoice[token]", "data[invoice][token]"),
		CustomData: CustomData{
			UserID:      firstValue(values, "custom_data[user_id]", "data[custom_data][user_id]"),
			Type:        firstValue(values, "custom_data[type]", "data[custom_data][type]"),
			ListingID:   firstValue(values, "custom_data[listing_id]", "data[custom_data][listing_id]"),
			BoostOption: firstValue(values, "custom_data[boost_option]", "data[custom_data][boost_option]"),
			PackName:    firstValue(values, "custom_data[pack_name]", "data[custom_data][pack_name]"),
			AppName:     firstValue(values, "custom_data[app_name]", "data[custom_data][app_name]"),
		},
	}
	if credits := firstValue(values, "custom_data[credits]", "data[custom_data][credits]"); credits != "" {
		if n, err := strconv.Atoi(credits); err == nil {
			ev.CustomData.Credits = n
		}
	}
	if ev.Token == "" && ev.Status == "" {
		return nil, ErrUnparsableCallback
	}
	return ev, nil
}

func firstValue(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := values.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// IsSuccess reports whether the event marks a settled payment.
func (e *CallbackEvent) IsSuccess() bool {
	return strings.EqualFold(e.Status, StatusCompleted)
}

// IsFailure reports whether the event marks a terminal failure. Interim
// statuses like "pending" are neither success nor failure and must leave the
// transaction untouched.
func (e *CallbackEvent) IsFailure() bool {
	return strings.EqualFold(e.Status, StatusFailed) || strings.EqualFold(e.Status, StatusCancelled)
}
