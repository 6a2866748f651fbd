package leverapi

import (
	"fmt"
	"mime/multipart"
	"strconv"
)

// fieldKind selects the multipart serialization strategy of one field.
type fieldKind int

const (
	// fieldScalar writes a single name=value part.
	fieldScalar fieldKind = iota
	// fieldRepeated writes one name[]=value part per value.
	fieldRepeated
	// fieldPhones writes one phones[][value]=value part per value.
	fieldPhones
	// fieldArchived writes the archived[reason] and archived[archivedAt]
	// sub-field pair.
	fieldArchived
)

// payloadField is one creation form field together with its serialization
// kind, so encoding never needs runtime type inspection.
type payloadField struct {
	name       string
	kind       fieldKind
	value      string
	values     []string
	archivedAt int64
}

// Payload is the ordered multipart field set for an opportunity creation
// request. Fields with empty values are dropped at insertion time.
type Payload struct {
	fields []payloadField
}

// AddScalar appends a single-valued field. Empty values are omitted.
func (p *Payload) AddScalar(name, value string) {
	if value == "" {
		return
	}
	p.fields = append(p.fields, payloadField{name: name, kind: fieldScalar, value: value})
}

// AddRepeated appends a list field serialized as repeated name[] parts.
// Empty lists are omitted.
func (p *Payload) AddRepeated(name string, values []string) {
	if len(values) == 0 {
		return
	}
	p.fields = append(p.fields, payloadField{name: name, kind: fieldRepeated, values: values})
}

// AddPhones appends phone values serialized as phones[][value] parts.
func (p *Payload) AddPhones(values []string) {
	if len(values) == 0 {
		return
	}
	p.fields = append(p.fields, payloadField{name: "phones", kind: fieldPhones, values: values})
}

// AddArchived appends the archived sub-field pair. The archived field is
// serialized as two parts, not a flat value.
func (p *Payload) AddArchived(reason string, archivedAt int64) {
	if reason == "" {
		return
	}
	p.fields = append(p.fields, payloadField{
		name:       "archived",
		kind:       fieldArchived,
		value:      reason,
		archivedAt: archivedAt,
	})
}

// Len reports how many fields the payload carries.
func (p *Payload) Len() int {
	return len(p.fields)
}

// Pairs expands the payload into flat (name, value) form pairs in insertion
// order.
func (p *Payload) Pairs() [][2]string {
	var pairs [][2]string
	for _, f := range p.fields {
		switch f.kind {
		case fieldScalar:
			pairs = append(pairs, [2]string{f.name, f.value})
		case fieldRepeated:
			for _, v := range f.values {
				pairs = append(pairs, [2]string{f.name + "[]", v})
			}
		case fieldPhones:
			for _, v := range f.values {
				pairs = append(pairs, [2]string{"phones[][value]", v})
			}
		case fieldArchived:
			pairs = append(pairs, [2]string{"archived[reason]", f.value})
			pairs = append(pairs, [2]string{"archived[archivedAt]", strconv.FormatInt(f.archivedAt, 10)})
		}
	}

	return pairs
}

// encode writes all form fields to the multipart writer.
func (p *Payload) encode(w *multipart.Writer) error {
	for _, pair := range p.Pairs() {
		if err := w.WriteField(pair[0], pair[1]); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", pair[0], err)
		}
	}

	return nil
}
