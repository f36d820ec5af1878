package game

import (
	"errors"
	"math"
)

const (
	MaxSkill          = 5
	MaxEmployees      = 200
	MaxOpinions       = 5
	SharePriceHistory = 24

	// A month is always 30 in-game days; ticks advance by fractions of it.
	DaysPerMonth = 30

	LoanMonthlyRate  = 0.03
	RaiseFundsCash   = 100_000.0
	RaiseFundsEquity = 5.0
	MinCEOShare      = 20.0

	StrikeResignAfterSeconds = 120.0
	TrainingDays             = 5.0
)

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrOfficeFull          = errors.New("office is at capacity")
	ErrOfficeNotFound      = errors.New("office not found")
	ErrOfficeLocked        = errors.New("office requires a higher business level")
	ErrOfficeTooSmall      = errors.New("office cannot hold the current headcount")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAlreadyTraining     = errors.New("employee is already training")
	ErrMaxSkill            = errors.New("employee already at max skill")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInvalidAmount       = errors.New("amount must be > 0")
	ErrPerkNotFound        = errors.New("perk not found")
	ErrAlreadyOwned        = errors.New("already owned")
	ErrNotOwned            = errors.New("not owned")
	ErrInfraNotFound       = errors.New("infrastructure not found")
	ErrChannelNotFound     = errors.New("marketing channel not found")
	ErrUnknownBoost        = errors.New("unknown boost type")
	ErrNotOnStrike         = errors.New("employee is not on strike")
	ErrOnStrike            = errors.New("employee is on strike")
	ErrMemberNotFound      = errors.New("board member not found")
	ErrStrikeRiskTooHigh   = errors.New("strike risk too high to raise funds")
	ErrBoardDissatisfied   = errors.New("board satisfaction too low")
	ErrCEOShareFloor       = errors.New("ceo ownership would fall below the floor")
	ErrInsufficientShares  = errors.New("insufficient shares")
	ErrSellerRefused       = errors.New("board member refused the trade")
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNotPending   = errors.New("project is not pending")
	ErrEmployeeBusy        = errors.New("employee already assigned to a project")
	ErrTeamFull            = errors.New("project team is full")
	ErrTeamIncomplete      = errors.New("project team does not meet requirements")
	ErrNotAssigned         = errors.New("employee is not assigned to the project")
	ErrNotConfigured       = errors.New("company is not configured")
	ErrInvalidName         = errors.New("name must be 2-40 characters")
	ErrEquipmentMaxLevel   = errors.New("equipment already at max level")
	ErrInvalidDecision     = errors.New("decision requires a board")
	ErrInvalidSharePercent = errors.New("share percent must be > 0")
	ErrUnknownAction       = errors.New("unknown action")
)

var notFound = []error{
	ErrCandidateNotFound, ErrEmployeeNotFound, ErrOfficeNotFound, ErrLoanNotFound,
	ErrPerkNotFound, ErrInfraNotFound, ErrChannelNotFound, ErrMemberNotFound,
	ErrProjectNotFound, ErrUnknownAction,
}

var rejections = []error{
	ErrOfficeFull, ErrOfficeLocked, ErrOfficeTooSmall, ErrInsufficientFunds,
	ErrAlreadyTraining, ErrMaxSkill, ErrInvalidAmount, ErrAlreadyOwned, ErrNotOwned,
	ErrUnknownBoost, ErrNotOnStrike, ErrOnStrike, ErrStrikeRiskTooHigh,
	ErrBoardDissatisfied, ErrCEOShareFloor, ErrInsufficientShares, ErrSellerRefused,
	ErrProjectNotPending, ErrEmployeeBusy, ErrTeamFull, ErrTeamIncomplete,
	ErrNotAssigned, ErrNotConfigured, ErrInvalidName, ErrEquipmentMaxLevel,
	ErrInvalidDecision, ErrInvalidSharePercent,
}

func matchAny(err error, list []error) bool {
	for _, target := range list {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err names a missing entity.
func IsNotFound(err error) bool { return err != nil && matchAny(err, notFound) }

// IsRejection reports whether err is a rule rejection: the action was
// refused and the state was left unchanged.
func IsRejection(err error) bool {
	return err != nil && (matchAny(err, rejections) || IsNotFound(err))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPercent(v float64) float64 {
	return clamp(v, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds half away from zero, which is what every money field in a report uses.
func Round(v float64) int64 {
	return int64(math.Round(v))
}

// LoanMonthlyPayment is simple amortization: amount*(1+rate*months)/months, rounded.
func LoanMonthlyPayment(amount, rate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return math.Round(amount * (1 + rate*float64(months)) / float64(months))
}
