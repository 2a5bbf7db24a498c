package catalog

import (
	"github.com/holerite-dev/holerite/internal/model"
	"github.com/holerite-dev/holerite/internal/money"
)

// Categories used by the built-in catalogs.
const (
	CategorySalary    = "salary"
	CategoryOvertime  = "overtime"
	CategoryBonus     = "bonus"
	CategoryBenefit   = "benefit"
	CategorySocial    = "social_security"
	CategoryIncomeTax = "income_tax"
	CategoryAdvance   = "advance"
	CategoryTransport = "transport"
	CategoryHealth    = "health"
)

// DefaultCatalog returns the common rubrics for a locale. Unknown locales get
// the Brazilian catalog.
func DefaultCatalog(locale string) []Rubric {
	nf, err := money.Lookup(locale)
	if err == nil && nf.Locale() == money.FrFR.Locale() {
		return frenchCatalog()
	}
	return brazilianCatalog()
}

func brazilianCatalog() []Rubric {
	e, d := model.KindEarning, model.KindDeduction
	return []Rubric{
		{Code: "BR001", Name: "Salário base", Kind: e, Category: CategorySalary, Pattern: `SALARIO|DIAS NORMAIS|HORAS NORMAIS|ORDENADO`},
		{Code: "BR002", Name: "Horas extras", Kind: e, Category: CategoryOvertime, Pattern: `HORAS? EXTRAS?|H\.? ?EXTRA|DSR`},
		{Code: "BR003", Name: "Adicional noturno", Kind: e, Category: CategoryOvertime, Pattern: `ADIC(IONAL|\.)? ?NOTURNO`},
		{Code: "BR004", Name: "Comissões", Kind: e, Category: CategoryBonus, Pattern: `COMISS|GRATIFICA|PREMIO|BONUS|PLR`},
		{Code: "BR005", Name: "13º salário", Kind: e, Category: CategoryBonus, Pattern: `13.? ?SAL|DECIMO TERCEIRO`},
		{Code: "BR006", Name: "Férias", Kind: e, Category: CategoryBenefit, Pattern: `FERIAS|1/3`},
		{Code: "BR101", Name: "INSS", Kind: d, Category: CategorySocial, Pattern: `I\.?N\.?S\.?S`},
		{Code: "BR102", Name: "IRRF", Kind: d, Category: CategoryIncomeTax, Pattern: `I\.?R\.?R\.?F|IMPOSTO DE RENDA`},
		{Code: "BR103", Name: "Adiantamento", Kind: d, Category: CategoryAdvance, Pattern: `ADIANT`},
		{Code: "BR104", Name: "Vale transporte", Kind: d, Category: CategoryTransport, Pattern: `VALE[ -]?TRANSP|V\.?T\.?$`},
		{Code: "BR105", Name: "Assistência médica", Kind: d, Category: CategoryHealth, Pattern: `ASSIST.*MEDICA|PLANO DE SAUDE|ODONTO`},
		{Code: "BR106", Name: "Vale refeição", Kind: d, Category: CategoryBenefit, Pattern: `VALE[ -]?(REFEICAO|ALIMENTACAO)|V\.?R\.?$`},
	}
}

func frenchCatalog() []Rubric {
	e, d := model.KindEarning, model.KindDeduction
	return []Rubric{
		{Code: "FR001", Name: "Salaire de base", Kind: e, Category: CategorySalary, Pattern: `SALAIRE DE BASE|APPOINTEMENTS`},
		{Code: "FR002", Name: "Heures supplémentaires", Kind: e, Category: CategoryOvertime, Pattern: `HEURES? SUP`},
		{Code: "FR003", Name: "Primes", Kind: e, Category: CategoryBonus, Pattern: `PRIME|GRATIFICATION|13E MOIS`},
		{Code: "FR004", Name: "Congés payés", Kind: e, Category: CategoryBenefit, Pattern: `CONGES PAYES|INDEMNITE`},
		{Code: "FR101", Name: "Sécurité sociale", Kind: d, Category: CategorySocial, Pattern: `SECURITE SOCIALE|VIEILLESSE|RETRAITE|CHOMAGE|AGIRC|ARRCO`},
		{Code: "FR102", Name: "CSG / CRDS", Kind: d, Category: CategorySocial, Pattern: `\bCSG\b|\bCRDS\b`},
		{Code: "FR103", Name: "Prélèvement à la source", Kind: d, Category: CategoryIncomeTax, Pattern: `PRELEVEMENT A LA SOURCE|IMPOT SUR LE REVENU`},
		{Code: "FR104", Name: "Mutuelle", Kind: d, Category: CategoryHealth, Pattern: `MUTUELLE|PREVOYANCE|COMPLEMENTAIRE SANTE`},
		{Code: "FR105", Name: "Titres-restaurant", Kind: d, Category: CategoryBenefit, Pattern: `TICKETS? RESTAURANT|TITRES?[ -]RESTAURANT`},
		{Code: "FR106", Name: "Transport", Kind: d, Category: CategoryTransport, Pattern: `TRANSPORT|NAVIGO`},
	}
}
