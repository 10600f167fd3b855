package sp3

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Campaign is the 3-letter campaign code embedded in a standardized long
// filename.
type Campaign string

// Recognized campaigns. A reprocessing campaign is not a fixed literal:
// it is any "R" followed by two digits (e.g. "R03").
const (
	CampaignOperational Campaign = "OPS"
	CampaignMultiGNSS   Campaign = "MGX"
	CampaignDemo        Campaign = "DEM"
	CampaignTiming      Campaign = "TGA"
	CampaignTest        Campaign = "TST"
)

var reprocessingCampaignPattern = regexp.MustCompile(`^R\d{2}$`)

func validCampaign(s string) bool {
	switch Campaign(s) {
	case CampaignOperational, CampaignMultiGNSS, CampaignDemo, CampaignTiming, CampaignTest:
		return true
	}
	return reprocessingCampaignPattern.MatchString(s)
}

// Availability is the 3-letter product-availability code.
type Availability string

// Recognized availabilities.
const (
	AvailabilityRapid     Availability = "RAP"
	AvailabilityFinal     Availability = "FIN"
	AvailabilityUltraRapid Availability = "ULT"
)

func validAvailability(s string) bool {
	switch Availability(s) {
	case AvailabilityRapid, AvailabilityFinal, AvailabilityUltraRapid:
		return true
	}
	return false
}

// ReleasePeriod is the 3-character release-period code, e.g. "01H".
type ReleasePeriod string

// Recognized release periods.
const (
	Period01H ReleasePeriod = "01H"
	Period12H ReleasePeriod = "12H"
	Period01D ReleasePeriod = "01D"
	Period01W ReleasePeriod = "01W"
	Period01L ReleasePeriod = "01L"
	Period01Y ReleasePeriod = "01Y"
)

// samplingUnitSeconds maps the filename's sampling-unit letter to a
// seconds multiplier.
var samplingUnitSeconds = map[byte]int64{
	'S': 1,
	'M': 60,
	'H': 3600,
	'D': 86400,
	'W': 604800,
	'L': 30 * 604800,
	'Y': 365 * 604800,
}

// ProductionAttributes is the set of fields a standardized SP3 long
// filename encodes, parsed out at read time and re-derivable at write
// time: AAABCCCDDD_YYYYDDDHHMM_PPP_NNU_ORB.SP3[.gz]
type ProductionAttributes struct {
	Agency       string
	Batch        int
	Campaign     Campaign
	Availability Availability
	ReleaseYear  int
	ReleaseDOY   int
	Period       ReleasePeriod

	SamplingPeriod time.Duration

	Gzipped bool
}

const productionStemLen = 38

// ParseProductionAttributes parses a standardized long SP3 filename
// (optionally ".gz"-suffixed) into its production attributes.
func ParseProductionAttributes(name string) (ProductionAttributes, error) {
	var attrs ProductionAttributes

	stem := name
	if strings.HasSuffix(strings.ToLower(stem), ".gz") {
		attrs.Gzipped = true
		stem = stem[:len(stem)-3]
	}

	if len(stem) != productionStemLen {
		return ProductionAttributes{}, ErrInvalidFilename
	}

	agency := stem[0:3]
	batch := stem[3:4]
	campaign := stem[4:7]
	availability := stem[7:10]
	if stem[10] != '_' {
		return ProductionAttributes{}, ErrInvalidFilename
	}
	year := stem[11:15]
	doy := stem[15:18]
	// stem[18:22] is HHMM, ignored on parse.
	if stem[22] != '_' {
		return ProductionAttributes{}, ErrInvalidFilename
	}
	period := stem[23:26]
	if stem[26] != '_' {
		return ProductionAttributes{}, ErrInvalidFilename
	}
	samplingCount := stem[27:29]
	samplingUnit := stem[29]
	if stem[30] != '_' || stem[31:38] != "ORB.SP3" {
		return ProductionAttributes{}, ErrInvalidFilename
	}

	if !validCampaign(campaign) {
		return ProductionAttributes{}, ErrInvalidCampaignName
	}
	if !validAvailability(availability) {
		return ProductionAttributes{}, ErrInvalidFileAvailability
	}

	batchN, err := strconv.Atoi(batch)
	if err != nil {
		return ProductionAttributes{}, ErrInvalidFilename
	}
	yearN, err1 := strconv.Atoi(year)
	doyN, err2 := strconv.Atoi(doy)
	countN, err3 := strconv.Atoi(samplingCount)
	if err1 != nil || err2 != nil || err3 != nil {
		return ProductionAttributes{}, ErrInvalidFilename
	}

	unitSeconds, ok := samplingUnitSeconds[samplingUnit]
	if !ok {
		return ProductionAttributes{}, ErrInvalidFilename
	}

	attrs.Agency = agency
	attrs.Batch = batchN
	attrs.Campaign = Campaign(campaign)
	attrs.Availability = Availability(availability)
	attrs.ReleaseYear = yearN
	attrs.ReleaseDOY = doyN
	attrs.Period = ReleasePeriod(period)
	attrs.SamplingPeriod = time.Duration(int64(countN)*unitSeconds) * time.Second

	return attrs, nil
}

// Validate checks field-level constraints (agency width, batch digit
// range, campaign/availability enum membership) using the shared
// validator instance. Unlike Header's fields, Campaign and Availability
// are plain strings rather than a closed type, so a value built by hand
// rather than parsed from a filename can still fail these checks.
func (p ProductionAttributes) Validate() error {
	if err := validate.Struct(productionValidation{Agency: p.Agency}); err != nil {
		return err
	}
	if p.Batch < 0 || p.Batch > 9 {
		return ErrInvalidFilename
	}
	if !validCampaign(string(p.Campaign)) {
		return ErrInvalidCampaignName
	}
	if !validAvailability(string(p.Availability)) {
		return ErrInvalidFileAvailability
	}
	return nil
}

type productionValidation struct {
	Agency string `validate:"len=3"`
}

// String renders the production attributes back into the standardized
// long filename. The release hour/minute field is always written as
// "0000"; there is no facility to round-trip a different value.
func (p ProductionAttributes) String() string {
	unit, count := formatSamplingCount(p.SamplingPeriod)

	stem := fmt.Sprintf(
		"%s%d%s%s_%04d%03d0000_%s_%02d%s_ORB.SP3",
		p.Agency, p.Batch, p.Campaign, p.Availability,
		p.ReleaseYear, p.ReleaseDOY, p.Period, count, string(unit),
	)

	if p.Gzipped {
		return stem + ".gz"
	}
	return stem
}

// formatSamplingCount picks the largest unit that divides d exactly into
// at most 99 units, falling back to seconds.
func formatSamplingCount(d time.Duration) (unit byte, count int64) {
	seconds := int64(d / time.Second)

	order := []byte{'Y', 'L', 'W', 'D', 'H', 'M', 'S'}
	for _, u := range order {
		unitSeconds := samplingUnitSeconds[u]
		if seconds%unitSeconds == 0 && seconds/unitSeconds <= 99 {
			return u, seconds / unitSeconds
		}
	}
	return 'S', seconds
}
