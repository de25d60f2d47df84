// Package merge validates exported grid snapshots and reconciles them with the
// local aspect collection.
package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"tableflip.dev/grid/pkg/aspect"
)

// AppName is the identity tag written into exports.
const AppName = "GrowthGrid"

// Payload is an exported snapshot.
type Payload struct {
	UserName   string          `json:"userName,omitempty"`
	Aspects    []aspect.Aspect `json:"aspects"`
	ExportDate string          `json:"exportDate,omitempty"`
	App        string          `json:"app,omitempty"`
}

// Problem is one validation finding. Fatal problems reject the payload; the
// rest describe aspects or fields that were skipped.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
}

func (p Problem) String() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// Result is the outcome of Decode.
type Result struct {
	OK       bool      `json:"ok"`
	Problems []Problem `json:"problems,omitempty"`
}

// Err returns nil when the payload is usable, otherwise an error naming the
// fatal problems.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	var msgs []string
	for _, p := range r.Problems {
		if p.Fatal {
			msgs = append(msgs, p.String())
		}
	}
	return fmt.Errorf("merge: invalid import: %s", strings.Join(msgs, "; "))
}

func (r *Result) fail(field, msg string) {
	r.OK = false
	r.Problems = append(r.Problems, Problem{Field: field, Message: msg, Fatal: true})
}

func (r *Result) warn(field, msg string) {
	r.Problems = append(r.Problems, Problem{Field: field, Message: msg})
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Decode parses and validates an exported snapshot. Malformed aspects, day
// buckets and entries are reported and left out of the payload; only a
// payload that is not an object or lacks an aspects array fails as a whole.
func Decode(data []byte) (Payload, Result) {
	res := Result{OK: true}
	var p Payload

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		res.fail("", "payload is not a JSON object")
		return p, res
	}

	raw, ok := top["aspects"]
	if !ok {
		res.fail("aspects", "missing")
		return p, res
	}
	var items []json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) || json.Unmarshal(raw, &items) != nil {
		res.fail("aspects", "not an array")
		return p, res
	}

	p.UserName = stringField(top, "userName", &res)
	p.ExportDate = stringField(top, "exportDate", &res)
	p.App = stringField(top, "app", &res)

	p.Aspects = make([]aspect.Aspect, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("aspects[%d]", i)
		var a aspect.Aspect
		if err := json.Unmarshal(item, &a); err != nil {
			res.warn(field, "not an aspect object; skipped")
			continue
		}
		if !valid(field, a, &res) {
			continue
		}
		if aspect.FormatName(a.Name) == "" {
			res.warn(field+".name", "empty after formatting; skipped")
			continue
		}
		a.Entries = decodeBuckets(field, a.Entries, &res)
		p.Aspects = append(p.Aspects, a)
	}
	return p, res
}

// decodeBuckets keeps the well formed buckets and entries of one aspect.
func decodeBuckets(field string, days []aspect.DayBucket, res *Result) []aspect.DayBucket {
	out := make([]aspect.DayBucket, 0, len(days))
	for b, day := range days {
		bf := fmt.Sprintf("%s.entries[%d]", field, b)
		if !valid(bf, day, res) {
			continue
		}
		kept := make([]aspect.Entry, 0, len(day.EntriesToday))
		for e, entry := range day.EntriesToday {
			if !valid(fmt.Sprintf("%s.entriesToday[%d]", bf, e), entry, res) {
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			continue
		}
		day.EntriesToday = kept
		out = append(out, day)
	}
	return out
}

// valid runs the struct tags of v and reports every failure under field.
func valid(field string, v interface{}, res *Result) bool {
	err := getValidator().Struct(v)
	if err == nil {
		return true
	}
	for _, msg := range fieldErrors(err) {
		res.warn(field+"."+msg, "invalid; skipped")
	}
	return false
}

func stringField(top map[string]json.RawMessage, key string, res *Result) string {
	raw, ok := top[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			res.warn(key, "not a string; ignored")
		}
		return ""
	}
	return s
}

func fieldErrors(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Drop the root type name from the namespace.
		ns := fe.Namespace()
		if _, rest, found := strings.Cut(ns, "."); found {
			ns = rest
		}
		out = append(out, ns+" "+fe.Tag())
	}
	return out
}

// AppMismatch reports whether the payload names a different application.
func AppMismatch(p Payload) bool {
	return p.App != "" && p.App != AppName
}

// Summary describes a payload before it is applied.
type Summary struct {
	Aspects    int    `json:"aspects"`
	Entries    int    `json:"entries"`
	UserName   string `json:"userName,omitempty"`
	ExportDate string `json:"exportDate,omitempty"`
	App        string `json:"app,omitempty"`
}

// Preview summarises p.
func Preview(p Payload) Summary {
	s := Summary{
		Aspects:    len(p.Aspects),
		UserName:   p.UserName,
		ExportDate: p.ExportDate,
		App:        p.App,
	}
	for i := range p.Aspects {
		s.Entries += p.Aspects[i].TotalEntries()
	}
	return s
}
