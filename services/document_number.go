package services

import (
	"fmt"

	"aduana_flow_app_go/models"

	"gorm.io/gorm"
)

// Document numbers are sequential per year. Acts use "<seq>/<year>"
// (e.g. 00042/2026); charges, levies and claims use a prefixed form
// "<PREFIX>-<year>-<seq>" (e.g. CGO-2026-00042).

const (
	chargeNumberPrefix = "CGO"
	levyNumberPrefix   = "GIR"
	claimNumberPrefix  = "REC"
)

// NextActNumber generates the next act number for a year
func NextActNumber(db *gorm.DB, year int) (string, error) {
	var last models.Act
	err := db.Where("act_number LIKE ?", fmt.Sprintf("%%/%d", year)).
		Order("act_number DESC").
		First(&last).Error

	sequence := 1
	if err == nil && last.ActNumber != nil {
		var parsedSeq, parsedYear int
		if _, scanErr := fmt.Sscanf(*last.ActNumber, "%d/%d", &parsedSeq, &parsedYear); scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max act number: %w", err)
	}

	return fmt.Sprintf("%05d/%d", sequence, year), nil
}

// NextChargeNumber generates the next charge number for a year
func NextChargeNumber(db *gorm.DB, year int) (string, error) {
	var last models.Charge
	err := db.Where("charge_number LIKE ?", fmt.Sprintf("%s-%d-%%", chargeNumberPrefix, year)).
		Order("charge_number DESC").
		First(&last).Error
	return nextPrefixedNumber(chargeNumberPrefix, year, last.ChargeNumber, err)
}

// NextLevyNumber generates the next levy number for a year
func NextLevyNumber(db *gorm.DB, year int) (string, error) {
	var last models.Levy
	err := db.Where("levy_number LIKE ?", fmt.Sprintf("%s-%d-%%", levyNumberPrefix, year)).
		Order("levy_number DESC").
		First(&last).Error
	return nextPrefixedNumber(levyNumberPrefix, year, last.LevyNumber, err)
}

// NextClaimNumber generates the next claim number for a year
func NextClaimNumber(db *gorm.DB, year int) (string, error) {
	var last models.Claim
	err := db.Where("claim_number LIKE ?", fmt.Sprintf("%s-%d-%%", claimNumberPrefix, year)).
		Order("claim_number DESC").
		First(&last).Error
	return nextPrefixedNumber(claimNumberPrefix, year, last.ClaimNumber, err)
}

func nextPrefixedNumber(prefix string, year int, lastNumber string, queryErr error) (string, error) {
	sequence := 1
	if queryErr == nil && lastNumber != "" {
		var parsedSeq int
		if _, scanErr := fmt.Sscanf(lastNumber, prefix+"-%d-%d", &year, &parsedSeq); scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if queryErr != nil && queryErr != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max document number: %w", queryErr)
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, sequence), nil
}
