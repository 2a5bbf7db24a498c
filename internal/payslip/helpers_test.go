package payslip

import (
	"github.com/shopspring/decimal"

	"github.com/holerite-dev/holerite/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func earning(desc, amount string) model.RawEntity {
	return model.RawEntity{Type: model.TypeEarningItem, Properties: []model.Property{
		{Type: model.PropEarningType, MentionText: desc},
		{Type: model.PropEarningAmount, MentionText: amount},
	}}
}

func deduction(desc, amount string) model.RawEntity {
	return model.RawEntity{Type: model.TypeDeductionItem, Properties: []model.Property{
		{Type: model.PropDeductionType, MentionText: desc},
		{Type: model.PropDeductionAmount, MentionText: amount},
	}}
}

// bulletinEntities is the sample January bulletin in extractor order.
func bulletinEntities() []model.RawEntity {
	return []model.RawEntity{
		{Type: model.TypeNetPay, MentionText: "644,78"},
		{Type: model.TypeGrossPay, MentionText: "1.344,23"},
		deduction("I.N.S.S.", "101,45"),
		deduction("DESC.ADIANT.SALARIAL", "520,00"),
		deduction("VALE TRANSPORTE", "78,00"),
		earning("DIAS NORMAIS", "1300,00"),
		earning("HORAS EXTRAS 60%", "38,52"),
	}
}
