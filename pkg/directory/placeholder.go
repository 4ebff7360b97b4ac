package directory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"airstream/pkg/domain"
)

const (
	placeholderIDPrefix = "default-asset-"

	DefaultPageSize            = 10
	DefaultPlaceholderImageURL = "/airplane-in-flight.png"
)

// IsPlaceholderID reports whether id names an example row that is shown in
// the table but never stored in the directory.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderIDPrefix)
}

func placeholderIndex(id string) (int, bool) {
	if !IsPlaceholderID(id) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(id, placeholderIDPrefix))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func placeholderAsset(i int, imageURL string) domain.Asset {
	leaseStart := domain.NewDate(2024, time.November, 7)
	leaseEnd := domain.NewDate(2027, time.November, 6)
	manufactured := domain.NewDate(2024, time.March, 11)
	return domain.Asset{
		ID:                fmt.Sprintf("%s%d", placeholderIDPrefix, i),
		SerialNumber:      "722910",
		Model:             "B777-300ER",
		LeaseStatus:       domain.LeaseLeased,
		LeaseStartDate:    &leaseStart,
		LeaseEndDate:      &leaseEnd,
		Operator:          "Korean Air",
		EngineDesignation: "CFM56-7B",
		Manufacturer:      "Boeing",
		ManufactureDate:   &manufactured,
		RegistrationNo:    "A6-ENA",
		TSN:               "23,456",
		CSN:               "12,345",
		TSLSV:             "23,456",
		CSLSV:             "12,345",
		OperationStatus:   domain.OperationInService,
		LifeRemaining:     84,
		ImageURL:          imageURL,
		Placeholder:       true,
	}
}

// placeholderRows fills a page of pageSize rows after real records.
func placeholderRows(real, pageSize int, imageURL string) []domain.Asset {
	n := pageSize - real
	if n <= 0 {
		return nil
	}
	rows := make([]domain.Asset, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, placeholderAsset(i, imageURL))
	}
	return rows
}
