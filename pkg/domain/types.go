package domain

import "strings"

type LeaseStatus string

const (
	LeaseUnset  LeaseStatus = ""
	LeaseLeased LeaseStatus = "Leased"
	LeaseNaked  LeaseStatus = "Naked"
)

type OperationStatus string

const (
	OperationUnset        OperationStatus = ""
	OperationInService    OperationStatus = "In-Service"
	OperationOutOfService OperationStatus = "Out-of-Service"
)

type AssetCategory string

const (
	CategoryAircraft    AssetCategory = "Aircraft"
	CategoryEngine      AssetCategory = "Engine"
	CategoryAPU         AssetCategory = "APU"
	CategoryLandingGear AssetCategory = "Landing Gear"
)

// ResetStep is a stage of the password reset flow.
type ResetStep string

const (
	StepEmail        ResetStep = "email"
	StepVerification ResetStep = "verification"
	StepNewPassword  ResetStep = "new-password"
	StepSuccess      ResetStep = "success"
)

// View names a page of the dashboard front end.
type View string

const (
	ViewLogin          View = "login"
	ViewForgotPassword View = "forgot-password"
	ViewVerifyCode     View = "verify-code"
	ViewResetPassword  View = "reset-password"
	ViewResetSuccess   View = "reset-success"
	ViewDashboard      View = "dashboard"
)

// Path returns the route the view is served on.
func (v View) Path() string {
	return "/" + string(v)
}

// Asset is one physical unit tracked by the directory.
type Asset struct {
	ID                string          `json:"id"`
	SerialNumber      string          `json:"serialNumber"`
	Model             string          `json:"model"`
	LeaseStatus       LeaseStatus     `json:"leaseStatus,omitempty"`
	LeaseStartDate    *Date           `json:"leaseStartDate,omitempty"`
	LeaseEndDate      *Date           `json:"leaseEndDate,omitempty"`
	Operator          string          `json:"operator,omitempty"`
	EngineDesignation string          `json:"engineDesignation,omitempty"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	ManufactureDate   *Date           `json:"manufactureDate,omitempty"`
	RegistrationNo    string          `json:"registrationNo,omitempty"`
	TSN               string          `json:"tsn,omitempty"`
	CSN               string          `json:"csn,omitempty"`
	TSLSV             string          `json:"tslsv,omitempty"`
	CSLSV             string          `json:"cslsv,omitempty"`
	OperationStatus   OperationStatus `json:"operationStatus,omitempty"`
	LifeRemaining     int             `json:"lifeRemaining"`
	ImageURL          string          `json:"imageUrl"`
	Placeholder       bool            `json:"placeholder,omitempty"`
}

// AssetDraft is an unvalidated set of edits for an asset being created or modified.
// Empty strings mean unset; dates are kept in their raw form until saved.
type AssetDraft struct {
	ID                string          `json:"id,omitempty"`
	SerialNumber      string          `json:"serialNumber"`
	Model             string          `json:"model"`
	LeaseStatus       LeaseStatus     `json:"leaseStatus,omitempty"`
	LeaseStartDate    string          `json:"leaseStartDate,omitempty"`
	LeaseEndDate      string          `json:"leaseEndDate,omitempty"`
	Operator          string          `json:"operator,omitempty"`
	EngineDesignation string          `json:"engineDesignation,omitempty"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	ManufactureDate   string          `json:"manufactureDate,omitempty"`
	RegistrationNo    string          `json:"registrationNo,omitempty"`
	TSN               string          `json:"tsn,omitempty"`
	CSN               string          `json:"csn,omitempty"`
	TSLSV             string          `json:"tslsv,omitempty"`
	CSLSV             string          `json:"cslsv,omitempty"`
	OperationStatus   OperationStatus `json:"operationStatus,omitempty"`
	LifeRemaining     *int            `json:"lifeRemaining,omitempty"`
	ImageURL          string          `json:"imageUrl,omitempty"`
}

// DraftFromAsset seeds an edit draft with the stored values of a record.
func DraftFromAsset(a Asset) AssetDraft {
	life := a.LifeRemaining
	return AssetDraft{
		ID:                a.ID,
		SerialNumber:      a.SerialNumber,
		Model:             a.Model,
		LeaseStatus:       a.LeaseStatus,
		LeaseStartDate:    a.LeaseStartDate.String(),
		LeaseEndDate:      a.LeaseEndDate.String(),
		Operator:          a.Operator,
		EngineDesignation: a.EngineDesignation,
		Manufacturer:      a.Manufacturer,
		ManufactureDate:   a.ManufactureDate.String(),
		RegistrationNo:    a.RegistrationNo,
		TSN:               a.TSN,
		CSN:               a.CSN,
		TSLSV:             a.TSLSV,
		CSLSV:             a.CSLSV,
		OperationStatus:   a.OperationStatus,
		LifeRemaining:     &life,
		ImageURL:          a.ImageURL,
	}
}

func ParseLeaseStatus(raw string) (LeaseStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return LeaseUnset, true
	case strings.ToLower(string(LeaseLeased)):
		return LeaseLeased, true
	case strings.ToLower(string(LeaseNaked)):
		return LeaseNaked, true
	default:
		return "", false
	}
}

func ParseOperationStatus(raw string) (OperationStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return OperationUnset, true
	case strings.ToLower(string(OperationInService)):
		return OperationInService, true
	case strings.ToLower(string(OperationOutOfService)):
		return OperationOutOfService, true
	default:
		return "", false
	}
}

func ParseAssetCategory(raw string) (AssetCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case strings.ToLower(string(CategoryAircraft)):
		return CategoryAircraft, true
	case strings.ToLower(string(CategoryEngine)):
		return CategoryEngine, true
	case strings.ToLower(string(CategoryAPU)):
		return CategoryAPU, true
	case strings.ToLower(string(CategoryLandingGear)), "landing-gear", "landinggear":
		return CategoryLandingGear, true
	default:
		return "", false
	}
}
