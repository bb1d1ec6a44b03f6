package recommend

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
	"github.com/spendsense/spendsense/internal/guardrails"
	"github.com/spendsense/spendsense/internal/personas"
	"github.com/spendsense/spendsense/internal/signals"
)

// Rationale explains a persona assignment with literal signal values.
type Rationale struct {
	PersonaType string   `json:"persona_type"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	KeySignals  []string `json:"key_signals"`
}

// Generator renders persona- and item-specific explanations. Every rendered
// text passes the tone guardrail before it is returned; a violation blocks
// the whole text.
type Generator struct {
	log *logrus.Logger
}

// NewGenerator initializes a rationale generator.
func NewGenerator(log *logrus.Logger) *Generator {
	return &Generator{log: log}
}

// usd renders a minor-unit amount as a currency string, e.g. "$8,500.00".
func usd(minor int64) string {
	return money.New(minor, money.USD).Display()
}

// Generate renders the persona-level rationale. Returns
// guardrails.ErrToneViolation when the rendered text fails the tone check;
// the caller must suppress the rationale entirely, never a redacted version.
func (g *Generator) Generate(personaType string, confidence float64, sig signals.BehaviorSignals, userTags []string) (Rationale, error) {
	explanation := g.explain(personaType, sig)

	if err := guardrails.ValidateTone(explanation); err != nil {
		g.log.Errorf("Tone guardrail blocked rationale for persona %s: %v", personaType, err)
		return Rationale{}, err
	}

	return Rationale{
		PersonaType: personaType,
		Confidence:  confidence,
		Explanation: explanation,
		KeySignals:  userTags,
	}, nil
}

// ItemReason renders the short data-citing reason attached to one selected
// education item. Tone-gated the same way Generate is; the caller drops the
// item on violation.
func (g *Generator) ItemReason(personaType string, sig signals.BehaviorSignals, userTags []string) (string, error) {
	var reason string
	switch personaType {
	case personas.PersonaHighUtilization:
		reason = fmt.Sprintf("Your credit utilization is %.1f%% with %s in balances",
			sig.Credit.OverallUtilization, usd(sig.Credit.TotalBalance))
		if signals.HasTag(userTags, signals.FlagInterestCharges) {
			reason += ", and you're paying interest charges"
		}
		reason += "."
	case personas.PersonaVariableIncome:
		reason = fmt.Sprintf("Your income arrives every %d days with %.1f months of buffer.",
			sig.Income.MedianGapDays, sig.Income.BufferMonths)
	case personas.PersonaDebtConsolidator:
		reason = fmt.Sprintf("You're managing multiple cards at %.1f%% utilization.",
			sig.Credit.OverallUtilization)
	case personas.PersonaSubscriptionHeavy:
		reason = fmt.Sprintf("You have %d recurring subscriptions totaling %s/month.",
			sig.Subscriptions.Count, usd(sig.Subscriptions.MonthlyRecurringSpend))
	case personas.PersonaSavingsBuilder:
		reason = fmt.Sprintf("You're saving %s/month with %.1f%% growth.",
			usd(sig.Savings.MonthlyInflow), sig.Savings.GrowthRate)
	default:
		reason = "This matches your current financial profile."
	}

	if err := guardrails.ValidateTone(reason); err != nil {
		g.log.Errorf("Tone guardrail blocked item reason for persona %s: %v", personaType, err)
		return "", err
	}
	return reason, nil
}

func (g *Generator) explain(personaType string, sig signals.BehaviorSignals) string {
	switch personaType {
	case personas.PersonaHighUtilization:
		return g.explainHighUtilization(sig)
	case personas.PersonaVariableIncome:
		return g.explainVariableIncome(sig)
	case personas.PersonaDebtConsolidator:
		return g.explainDebtConsolidator(sig)
	case personas.PersonaSubscriptionHeavy:
		return g.explainSubscriptionHeavy(sig)
	case personas.PersonaSavingsBuilder:
		return g.explainSavingsBuilder(sig)
	default:
		return g.explainBalanced(sig)
	}
}

func (g *Generator) explainHighUtilization(sig signals.BehaviorSignals) string {
	credit := sig.Credit
	var b strings.Builder
	fmt.Fprintf(&b,
		"You've been identified as a High Utilization user because your credit card "+
			"utilization is %.1f%%, which is above the recommended 30%% threshold. "+
			"You're currently using %s of your %s total credit limit. ",
		credit.OverallUtilization, usd(credit.TotalBalance), usd(credit.TotalLimit))

	if signals.HasTag(credit.Flags, signals.FlagInterestCharges) {
		b.WriteString("You're also paying interest charges on your balances, which adds to the cost of carrying debt. ")
	}
	if signals.HasTag(credit.Flags, signals.FlagOverdue) {
		b.WriteString("Additionally, you have overdue payments, which can negatively impact your credit score. ")
	}

	b.WriteString("High credit utilization can hurt your credit score and lead to higher interest costs. " +
		"We recommend focusing on paying down high balances and keeping utilization below 30%.")
	return b.String()
}

func (g *Generator) explainVariableIncome(sig signals.BehaviorSignals) string {
	income := sig.Income
	return fmt.Sprintf(
		"You've been identified as a Variable Income user because your income arrives irregularly, "+
			"with a median gap of %d days between payments. Your average income payment is %s, "+
			"and you currently have %.1f months of cash flow buffer. "+
			"Variable income requires special budgeting strategies and a larger emergency fund. "+
			"We recommend building your buffer to at least 6-12 months of expenses and using "+
			"percentage-based budgeting rather than fixed amounts.",
		income.MedianGapDays, usd(income.AverageAmount), income.BufferMonths)
}

func (g *Generator) explainDebtConsolidator(sig signals.BehaviorSignals) string {
	credit := sig.Credit
	cards := 0
	for _, c := range credit.PerCard {
		if c.Balance > 0 {
			cards++
		}
	}
	return fmt.Sprintf(
		"You've been identified as a Debt Consolidator candidate because you're carrying balances "+
			"on %d cards at %.1f%% overall utilization and paying roughly %s in interest each month. "+
			"Consolidating these balances into a single lower-rate product could reduce your interest "+
			"costs and simplify your payments. We recommend comparing balance transfer and personal "+
			"loan options against your current rates.",
		cards, credit.OverallUtilization, usd(credit.MonthlyInterest))
}

func (g *Generator) explainSubscriptionHeavy(sig signals.BehaviorSignals) string {
	subs := sig.Subscriptions
	return fmt.Sprintf(
		"You've been identified as a Subscription Heavy user because you have %d active "+
			"recurring subscriptions totaling %s per month. This represents %.1f%% of your total "+
			"spending. While some subscriptions provide value, it's easy for unused subscriptions "+
			"to accumulate. We recommend conducting a subscription audit to identify services you "+
			"rarely use and canceling or downgrading them to save money.",
		subs.Count, usd(subs.MonthlyRecurringSpend), subs.PercentageOfSpending)
}

func (g *Generator) explainSavingsBuilder(sig signals.BehaviorSignals) string {
	return fmt.Sprintf(
		"You've been identified as a Savings Builder because you're making consistent progress "+
			"toward your financial goals. Your savings are growing at %.1f%% with an average "+
			"monthly inflow of %s. Your credit utilization is %.1f%%, which is in a healthy range. "+
			"Keep up the great work! We recommend focusing on building your emergency fund, "+
			"automating your savings, and optimizing your investment strategy.",
		sig.Savings.GrowthRate, usd(sig.Savings.MonthlyInflow), sig.Credit.OverallUtilization)
}

func (g *Generator) explainBalanced(sig signals.BehaviorSignals) string {
	var b strings.Builder
	b.WriteString("You've been identified as a Balanced user, which means you're generally maintaining " +
		"healthy financial habits without critical issues requiring immediate attention. ")

	var insights []string
	if sig.Credit.OverallUtilization < 30 && sig.Credit.TotalLimit > 0 {
		insights = append(insights, fmt.Sprintf("your credit utilization of %.1f%% is in a healthy range",
			sig.Credit.OverallUtilization))
	}
	if sig.Income.Stability == signals.StabilityStable {
		insights = append(insights, "you have stable, regular income")
	}
	if sig.Savings.MonthlyInflow > 0 {
		insights = append(insights, fmt.Sprintf("you're saving consistently with %s monthly inflow",
			usd(sig.Savings.MonthlyInflow)))
	}
	if len(insights) > 0 {
		b.WriteString("Specifically, " + strings.Join(insights, ", and ") + ". ")
	} else {
		// Always cite at least one concrete value from the signals.
		fmt.Fprintf(&b, "Your current credit utilization is %.1f%% and your recurring subscription spend is %s per month. ",
			sig.Credit.OverallUtilization, usd(sig.Subscriptions.MonthlyRecurringSpend))
	}

	b.WriteString("Continue monitoring your financial wellness and consider setting specific goals " +
		"to optimize your savings, reduce debt, or build wealth.")
	return b.String()
}
