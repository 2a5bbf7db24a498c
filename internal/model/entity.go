package model

import (
	"sort"
	"strings"
)

// Entity type tags emitted by the extraction provider.
const (
	TypeNetPay        = "net_pay"
	TypeGrossPay      = "gross_pay"
	TypeEarningItem   = "earning_item"
	TypeDeductionItem = "deduction_item"
	TypeINSSBase      = "inss_base"
	TypeFGTSBase      = "fgts_base"
	TypeIRRFBase      = "irrf_base"
	TypeEmployer      = "employer_name"
	TypeEmployee      = "employee_name"
	TypePayPeriod     = "pay_period"
)

// Property keys nested under item entities.
const (
	PropEarningType     = "earning_type"
	PropEarningAmount   = "earning_amount"
	PropDeductionType   = "deduction_type"
	PropDeductionAmount = "deduction_amount"
)

// Property is a nested (type, text) pair on an item entity.
type Property struct {
	Type        string `json:"type"`
	MentionText string `json:"mentionText"`
}

// RawEntity is the loosely typed wire shape produced by the extractor.
type RawEntity struct {
	Type        string     `json:"type"`
	MentionText string     `json:"mentionText,omitempty"`
	Properties  []Property `json:"properties,omitempty"`
}

// Entity is the closed set of entity variants. Only types in this package
// implement it.
type Entity interface {
	EntityType() string
	isEntity()
}

// NetPayEntity carries the declared net salary text.
type NetPayEntity struct{ Text string }

// GrossPayEntity carries the declared gross salary text.
type GrossPayEntity struct{ Text string }

// EarningItemEntity carries the properties of one earning line.
type EarningItemEntity struct{ Properties map[string]string }

// DeductionItemEntity carries the properties of one deduction line.
type DeductionItemEntity struct{ Properties map[string]string }

// BaseKind names a statutory base.
type BaseKind string

const (
	BaseINSS BaseKind = "inss"
	BaseFGTS BaseKind = "fgts"
	BaseIRRF BaseKind = "irrf"
)

// BaseEntity carries one statutory base amount.
type BaseEntity struct {
	Kind BaseKind
	Text string
}

// InfoField names a header field.
type InfoField string

const (
	InfoEmployer InfoField = "employer"
	InfoEmployee InfoField = "employee"
	InfoPeriod   InfoField = "period"
)

// InfoEntity carries a free-text header field.
type InfoEntity struct {
	Field InfoField
	Text  string
}

// UnknownEntity is any tag this package does not recognize.
type UnknownEntity struct{ Type string }

func (NetPayEntity) EntityType() string        { return TypeNetPay }
func (GrossPayEntity) EntityType() string      { return TypeGrossPay }
func (EarningItemEntity) EntityType() string   { return TypeEarningItem }
func (DeductionItemEntity) EntityType() string { return TypeDeductionItem }
func (e BaseEntity) EntityType() string        { return string(e.Kind) + "_base" }
func (e UnknownEntity) EntityType() string     { return e.Type }

func (e InfoEntity) EntityType() string {
	switch e.Field {
	case InfoEmployer:
		return TypeEmployer
	case InfoEmployee:
		return TypeEmployee
	default:
		return TypePayPeriod
	}
}

func (NetPayEntity) isEntity()        {}
func (GrossPayEntity) isEntity()      {}
func (EarningItemEntity) isEntity()   {}
func (DeductionItemEntity) isEntity() {}
func (BaseEntity) isEntity()          {}
func (InfoEntity) isEntity()          {}
func (UnknownEntity) isEntity()       {}

// Typed converts the wire shape into its variant. Tags are matched
// case-insensitively; repeated property keys keep the last value.
func (r RawEntity) Typed() Entity {
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case TypeNetPay:
		return NetPayEntity{Text: r.MentionText}
	case TypeGrossPay:
		return GrossPayEntity{Text: r.MentionText}
	case TypeEarningItem:
		return EarningItemEntity{Properties: r.propertyMap()}
	case TypeDeductionItem:
		return DeductionItemEntity{Properties: r.propertyMap()}
	case TypeINSSBase:
		return BaseEntity{Kind: BaseINSS, Text: r.MentionText}
	case TypeFGTSBase:
		return BaseEntity{Kind: BaseFGTS, Text: r.MentionText}
	case TypeIRRFBase:
		return BaseEntity{Kind: BaseIRRF, Text: r.MentionText}
	case TypeEmployer:
		return InfoEntity{Field: InfoEmployer, Text: r.MentionText}
	case TypeEmployee:
		return InfoEntity{Field: InfoEmployee, Text: r.MentionText}
	case TypePayPeriod:
		return InfoEntity{Field: InfoPeriod, Text: r.MentionText}
	default:
		return UnknownEntity{Type: r.Type}
	}
}

func (r RawEntity) propertyMap() map[string]string {
	props := make(map[string]string, len(r.Properties))
	for _, p := range r.Properties {
		props[strings.ToLower(strings.TrimSpace(p.Type))] = p.MentionText
	}
	return props
}

// TypedAll converts a slice of wire entities, preserving order.
func TypedAll(raw []RawEntity) []Entity {
	out := make([]Entity, len(raw))
	for i, r := range raw {
		out[i] = r.Typed()
	}
	return out
}

// Raw converts a variant back into its wire shape.
func Raw(e Entity) RawEntity {
	switch v := e.(type) {
	case NetPayEntity:
		return RawEntity{Type: TypeNetPay, MentionText: v.Text}
	case GrossPayEntity:
		return RawEntity{Type: TypeGrossPay, MentionText: v.Text}
	case EarningItemEntity:
		return RawEntity{Type: TypeEarningItem, Properties: properties(v.Properties, PropEarningType, PropEarningAmount)}
	case DeductionItemEntity:
		return RawEntity{Type: TypeDeductionItem, Properties: properties(v.Properties, PropDeductionType, PropDeductionAmount)}
	case BaseEntity:
		return RawEntity{Type: v.EntityType(), MentionText: v.Text}
	case InfoEntity:
		return RawEntity{Type: v.EntityType(), MentionText: v.Text}
	case UnknownEntity:
		return RawEntity{Type: v.Type}
	default:
		return RawEntity{}
	}
}

// properties emits the description and amount keys first, then any extras.
func properties(m map[string]string, descKey, amountKey string) []Property {
	var out []Property
	for _, k := range []string{descKey, amountKey} {
		if v, ok := m[k]; ok {
			out = append(out, Property{Type: k, MentionText: v})
		}
	}
	var extra []string
	for k := range m {
		if k != descKey && k != amountKey {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, Property{Type: k, MentionText: m[k]})
	}
	return out
}
