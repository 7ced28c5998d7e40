package payment

import (
	"regexp"
	"strconv"
	"time"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
)

// ValidateCardNumber 卡号必须恰好16位数字
func ValidateCardNumber(cardNumber string) error {
	if cardNumber == "" {
		return ErrCardNumberEmpty
	}
	if !cardNumberPattern.MatchString(cardNumber) {
		return ErrCardNumberFormat
	}
	return nil
}

// ValidateExpiryDate 有效期格式MM/YY(年份按20YY解释),当月仍然有效
func ValidateExpiryDate(expiry string, now time.Time) error {
	if expiry == "" {
		return ErrExpiryEmpty
	}
	m := expiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return ErrExpiryFormat
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return ErrExpired
	}
	return nil
}

// ValidateCVV CVV必须恰好3位数字
func ValidateCVV(cvv string) error {
	if cvv == "" {
		return ErrCVVEmpty
	}
	if !cvvPattern.MatchString(cvv) {
		return ErrCVVFormat
	}
	return nil
}

// Validate 依次校验卡号、有效期、CVV,返回第一个失败原因
func Validate(a Attempt, now time.Time) error {
	if err := ValidateCardNumber(a.CardNumber); err != nil {
		return err
	}
	if err := ValidateExpiryDate(a.ExpiryDate, now); err != nil {
		return err
	}
	return ValidateCVV(a.CVV)
}
