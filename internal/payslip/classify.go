package payslip

import (
	"fmt"
	"strings"

	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// itemKeys maps an item tag to its role and property keys.
var itemKeys = map[string]struct {
	kind      model.ItemKind
	descKey   string
	amountKey string
}{
	model.TypeEarningItem:   {model.KindEarning, model.PropEarningType, model.PropEarningAmount},
	model.TypeDeductionItem: {model.KindDeduction, model.PropDeductionType, model.PropDeductionAmount},
}

// Classify builds a tagged LineItem from an item entity's properties.
// The description is trimmed; a blank description counts as missing.
func Classify(entityType string, props map[string]string, nf money.NumberFormat) (model.Classified, error) {
	keys, ok := itemKeys[entityType]
	if !ok {
		return model.Classified{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entityType)
	}

	desc, ok := props[keys.descKey]
	desc = strings.TrimSpace(desc)
	if !ok || desc == "" {
		return model.Classified{}, &FieldError{EntityType: entityType, Field: keys.descKey}
	}

	rawAmount, ok := props[keys.amountKey]
	if !ok {
		return model.Classified{}, &FieldError{EntityType: entityType, Field: keys.amountKey}
	}

	amount, err := nf.Parse(rawAmount)
	if err != nil {
		return model.Classified{}, fmt.Errorf("%s %q: %w", entityType, desc, err)
	}

	return model.Classified{
		Kind: keys.kind,
		Item: model.LineItem{Description: desc, Amount: amount},
	}, nil
}
