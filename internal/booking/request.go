package booking

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"

	"homecare/internal/model"
)

const dateLayout = "2006-01-02"

// Zone is the local time zone of the service area. Calendar dates on bookings
// are Swiss dates, matching the date part of booking references.
var Zone = mustLoadZone("Europe/Zurich")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// AddressInput is the service address as submitted by the booking form.
type AddressInput struct {
	Street     string `json:"street" validate:"required,notblank,max=200"`
	PostalCode string `json:"postalCode" validate:"required,notblank,numeric,len=4"`
	City       string `json:"city" validate:"required,notblank,max=100"`
	Canton     string `json:"canton,omitempty" validate:"omitempty,len=2,alpha"`
}

// LineInput is one selected service in the booking form.
type LineInput struct {
	ServiceID             string `json:"service_id" validate:"required,uuid"`
	ScheduledDate         string `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime         string `json:"scheduled_time,omitempty" validate:"omitempty,oneof=morning afternoon evening flexible"`
	ServiceNotes          string `json:"service_notes,omitempty" validate:"max=2000"`
	RecurringInterval     string `json:"recurring_interval,omitempty" validate:"omitempty,oneof=weekly biweekly monthly custom"`
	RecurringIntervalDays int    `json:"recurring_interval_days,omitempty" validate:"omitempty,min=1,max=365"`
}

// Request is the submitted booking form.
type Request struct {
	CustomerEmail   string       `json:"customer_email" validate:"required,email"`
	CustomerPhone   string       `json:"customer_phone" validate:"required,notblank,min=6,max=32"`
	CustomerAddress AddressInput `json:"customer_address"`
	PreferredDate   string       `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime   string       `json:"preferred_time" validate:"required,oneof=morning afternoon evening flexible"`
	GeneralNotes    string       `json:"general_notes,omitempty" validate:"max=2000"`
	Services        []LineInput  `json:"services" validate:"required,min=1,dive"`
}

// ValidationError lists rejected fields by their JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, rule string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = rule
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates any tagged struct and converts failures to a *ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.add(fieldPath(fe.Namespace()), fe.Tag())
	}
	return out
}

// Validate checks required fields and schedule rules. The preferred date and
// any per-service date must not lie before the Swiss calendar date at now.
func (r Request) Validate(now time.Time) error {
	out := &ValidationError{}
	if err := Struct(r); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		out = ve
	}

	today := now.In(Zone).Format(dateLayout)
	if _, bad := out.Fields["preferred_date"]; !bad && r.PreferredDate != "" && r.PreferredDate < today {
		out.add("preferred_date", "not_in_past")
	}
	for i, l := range r.Services {
		prefix := fmt.Sprintf("services[%d].", i)
		if l.RecurringInterval == "custom" && l.RecurringIntervalDays == 0 {
			out.add(prefix+"recurring_interval_days", "required_for_custom")
		}
		if _, bad := out.Fields[prefix+"scheduled_date"]; !bad && l.ScheduledDate != "" && l.ScheduledDate < today {
			out.add(prefix+"scheduled_date", "not_in_past")
		}
	}

	if len(out.Fields) > 0 {
		return out
	}
	return nil
}

// Draft builds the ordered selection from the request, keeping submission order.
func (r Request) Draft() (*Draft, error) {
	d := NewDraft()
	for _, l := range r.Services {
		if err := d.Add(Line{
			ServiceID:             l.ServiceID,
			ScheduledDate:         l.ScheduledDate,
			ScheduledTime:         l.ScheduledTime,
			Notes:                 l.ServiceNotes,
			RecurringInterval:     l.RecurringInterval,
			RecurringIntervalDays: l.RecurringIntervalDays,
		}); err != nil {
			return nil, err
		}
	}
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// Address converts the submitted address to the domain form.
func (a AddressInput) Address() model.Address {
	return model.Address{
		Street:     strings.TrimSpace(a.Street),
		PostalCode: strings.TrimSpace(a.PostalCode),
		City:       strings.TrimSpace(a.City),
		Canton:     strings.ToUpper(strings.TrimSpace(a.Canton)),
	}
}

// fieldPath drops the root struct name: "Request.customer_address.city" -> "customer_address.city".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
