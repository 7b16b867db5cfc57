package checkout

// NormalizeCustomerPhone applies the strict mobile-number rule: strip
// non-digits, require a leading '9' and cap at 9 digits. The boolean reports
// whether the result is a complete local mobile number.
func NormalizeCustomerPhone(raw string) (string, bool) {
	var digits []rune
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 || digits[0] != '9' {
		return "", false
	}
	if len(digits) > 9 {
		digits = digits[:9]
	}
	return string(digits), len(digits) == 9
}
