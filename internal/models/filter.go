package models

// Phone type filter values. PhoneFilterAll disables the phone-type predicate.
const (
	PhoneFilterAll      = "all"
	PhoneFilterLandline = "landline"
	PhoneFilterMobile   = "mobile"
)

// FilterCriteria is the full set of visibility filters the map UI can apply.
// All populated predicates are ANDed together.
type FilterCriteria struct {
	// SearchTerm matches case-insensitively against name, address and
	// provider. Empty matches everything.
	SearchTerm string `json:"search_term,omitempty" query:"q"`

	// SelectedCategory is an exact category match. Empty disables it.
	SelectedCategory string `json:"selected_category,omitempty" query:"category"`

	// VisibleProviders is an allow-list. nil means "no provider filter";
	// an empty non-nil list means nothing is visible. The UI always sends
	// the full provider list on load, so the empty list only occurs when a
	// user has unticked every provider.
	VisibleProviders []string `json:"visible_providers,omitempty"`

	// PhoneType is one of all/landline/mobile, matched against the
	// effective phone type of each record. Empty is treated as "all".
	PhoneType string `json:"phone_type,omitempty" query:"phone_type"`

	// DroppedPin plus RadiusKm enable the proximity filter.
	DroppedPin *Coordinates `json:"dropped_pin,omitempty"`
	RadiusKm   float64      `json:"radius_km,omitempty" query:"radius_km"`
}
