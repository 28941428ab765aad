package filter

import (
	"net/url"
	"strings"
	"time"

	"taskSearch/internal/models/task"
)

// Имена параметров запроса
const (
	ParamText        = "q"
	ParamStatus      = "status"
	ParamPriority    = "priority"
	ParamTags        = "tags"
	ParamCreatedFrom = "createdFrom"
	ParamCreatedTo   = "createdTo"
	ParamDueFrom     = "dueFrom"
	ParamDueTo       = "dueTo"
	ParamOverdue     = "overdue"
)

// DateLayout - календарная дата ISO, время суток в URL не сохраняется
const DateLayout = "2006-01-02"

// Codec переводит спецификацию в плоские параметры URL и обратно.
// Даты разбираются как полночь в Location.
type Codec struct {
	Location *time.Location
}

func NewCodec(loc *time.Location) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	return &Codec{Location: loc}
}

var defaultCodec = NewCodec(time.UTC)

func Encode(spec Spec) url.Values {
	return defaultCodec.Encode(spec)
}

func Decode(params url.Values) Spec {
	return defaultCodec.Decode(params)
}

func (c *Codec) Encode(spec Spec) url.Values {
	spec = spec.Normalize()
	params := url.Values{}

	if spec.Text != "" {
		params.Set(ParamText, spec.Text)
	}
	for _, s := range spec.Status {
		params.Add(ParamStatus, string(s))
	}
	for _, p := range spec.Priority {
		params.Add(ParamPriority, string(p))
	}
	for _, tag := range spec.Tags {
		params.Add(ParamTags, tag)
	}
	encodeRange(params, spec.CreatedDateRange, ParamCreatedFrom, ParamCreatedTo)
	encodeRange(params, spec.DueDateRange, ParamDueFrom, ParamDueTo)
	if spec.IsOverdue {
		params.Set(ParamOverdue, "true")
	}
	return params
}

func encodeRange(params url.Values, r *DateRange, fromKey, toKey string) {
	if r == nil {
		return
	}
	if r.From != nil {
		params.Set(fromKey, r.From.Format(DateLayout))
	}
	if r.To != nil {
		params.Set(toKey, r.To.Format(DateLayout))
	}
}

// Decode - обратная операция к Encode. Неизвестные статусы и приоритеты,
// а также неразбираемые даты молча отбрасываются.
func (c *Codec) Decode(params url.Values) Spec {
	spec := Spec{
		Text: params.Get(ParamText),
	}

	for _, raw := range splitValues(params[ParamStatus]) {
		if s, err := task.ParseStatus(raw); err == nil {
			spec.Status = append(spec.Status, s)
		}
	}
	for _, raw := range splitValues(params[ParamPriority]) {
		if p, err := task.ParsePriority(raw); err == nil {
			spec.Priority = append(spec.Priority, p)
		}
	}
	for _, tag := range params[ParamTags] {
		if tag != "" {
			spec.Tags = append(spec.Tags, tag)
		}
	}

	spec.CreatedDateRange = c.decodeRange(params, ParamCreatedFrom, ParamCreatedTo)
	spec.DueDateRange = c.decodeRange(params, ParamDueFrom, ParamDueTo)
	spec.IsOverdue = params.Get(ParamOverdue) == "true"

	return spec.Normalize()
}

func (c *Codec) decodeRange(params url.Values, fromKey, toKey string) *DateRange {
	r := &DateRange{
		From: c.parseDate(params.Get(fromKey)),
		To:   c.parseDate(params.Get(toKey)),
	}
	if r.empty() {
		return nil
	}
	return r
}

func (c *Codec) parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, c.Location)
	if err != nil {
		return nil
	}
	return &t
}

// splitValues принимает как повторяющиеся параметры, так и перечисление через запятую
func splitValues(values []string) []string {
	res := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				res = append(res, part)
			}
		}
	}
	return res
}
