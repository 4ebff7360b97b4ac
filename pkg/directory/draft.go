package directory

import (
	"strings"

	"airstream/pkg/domain"
)

// buildAsset validates draft and converts it into a record with the given id.
// A nil life value is left to the caller.
func buildAsset(id string, draft domain.AssetDraft, imageURL string) (domain.Asset, error) {
	serial := strings.TrimSpace(draft.SerialNumber)
	if serial == "" {
		return domain.Asset{}, invalid("serialNumber", ErrRequiredFields)
	}
	model := strings.TrimSpace(draft.Model)
	if model == "" {
		return domain.Asset{}, invalid("model", ErrRequiredFields)
	}
	lease, ok := domain.ParseLeaseStatus(string(draft.LeaseStatus))
	if !ok {
		return domain.Asset{}, invalid("leaseStatus", ErrInvalidLeaseStatus)
	}
	operation, ok := domain.ParseOperationStatus(string(draft.OperationStatus))
	if !ok {
		return domain.Asset{}, invalid("operationStatus", ErrInvalidOperationStatus)
	}
	leaseStart, err := optionalDate("leaseStartDate", draft.LeaseStartDate)
	if err != nil {
		return domain.Asset{}, err
	}
	leaseEnd, err := optionalDate("leaseEndDate", draft.LeaseEndDate)
	if err != nil {
		return domain.Asset{}, err
	}
	manufactured, err := optionalDate("manufactureDate", draft.ManufactureDate)
	if err != nil {
		return domain.Asset{}, err
	}
	if draft.LifeRemaining != nil && (*draft.LifeRemaining < 0 || *draft.LifeRemaining > 100) {
		return domain.Asset{}, invalid("lifeRemaining", ErrInvalidLifeRemaining)
	}

	asset := domain.Asset{
		ID:                id,
		SerialNumber:      serial,
		Model:             model,
		LeaseStatus:       lease,
		LeaseStartDate:    leaseStart,
		LeaseEndDate:      leaseEnd,
		Operator:          strings.TrimSpace(draft.Operator),
		EngineDesignation: strings.TrimSpace(draft.EngineDesignation),
		Manufacturer:      strings.TrimSpace(draft.Manufacturer),
		ManufactureDate:   manufactured,
		RegistrationNo:    strings.TrimSpace(draft.RegistrationNo),
		TSN:               strings.TrimSpace(draft.TSN),
		CSN:               strings.TrimSpace(draft.CSN),
		TSLSV:             strings.TrimSpace(draft.TSLSV),
		CSLSV:             strings.TrimSpace(draft.CSLSV),
		OperationStatus:   operation,
		ImageURL:          strings.TrimSpace(draft.ImageURL),
	}
	if draft.LifeRemaining != nil {
		asset.LifeRemaining = *draft.LifeRemaining
	}
	if asset.ImageURL == "" {
		asset.ImageURL = imageURL
	}
	return asset, nil
}

func optionalDate(field, raw string) (*domain.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, invalid(field, ErrInvalidDate)
	}
	return &d, nil
}
