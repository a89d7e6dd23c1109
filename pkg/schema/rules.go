package schema

import "strconv"

// Min constrains numeric fields to values >= threshold.
func Min(threshold float64) Rule {
	return Rule{Kind: RuleMin, Params: map[string]string{"value": formatFloat(threshold)}}
}

// Max constrains numeric fields to values <= threshold.
func Max(threshold float64) Rule {
	return Rule{Kind: RuleMax, Params: map[string]string{"value": formatFloat(threshold)}}
}

// MinLength constrains string fields to a minimum rune count.
func MinLength(n int) Rule {
	return Rule{Kind: RuleMinLength, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// MaxLength constrains string fields to a maximum rune count.
func MaxLength(n int) Rule {
	return Rule{Kind: RuleMaxLength, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// MinItems constrains array fields to a minimum element count.
func MinItems(n int) Rule {
	return Rule{Kind: RuleMinItems, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// MaxItems constrains array fields to a maximum element count.
func MaxItems(n int) Rule {
	return Rule{Kind: RuleMaxItems, Params: map[string]string{"value": strconv.Itoa(n)}}
}

// Pattern constrains string fields to match a Go regular expression.
func Pattern(expr string) Rule {
	return Rule{Kind: RulePattern, Params: map[string]string{"pattern": expr}}
}

// Step constrains numeric fields to multiples of the given increment,
// anchored at the field's minimum when one is declared.
func Step(increment float64) Rule {
	return Rule{Kind: RuleStep, Params: map[string]string{"value": formatFloat(increment)}}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
