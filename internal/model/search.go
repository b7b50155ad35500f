package model

// SearchFilters is the ephemeral query object for the directory search.
// Every field is optional; set fields compose by logical AND. Boolean
// filters are tri-state: nil means unconstrained.
type SearchFilters struct {
	ProviderTypes         []ProviderType      `json:"provider_types" form:"provider_type"`
	VerificationStatus    *VerificationStatus `json:"verification_status" form:"verification_status"`
	IsEmergency           *bool               `json:"is_emergency" form:"is_emergency"`
	HomeVisitAvailable    *bool               `json:"home_visit_available" form:"home_visit_available"`
	AccessibilityFeatures []string            `json:"accessibility_features" form:"accessibility_feature"`
	City                  string              `json:"city" form:"city"`
}

// Empty reports whether no facet constraint is active.
func (f *SearchFilters) Empty() bool {
	return len(f.ProviderTypes) == 0 &&
		f.VerificationStatus == nil &&
		f.IsEmergency == nil &&
		f.HomeVisitAvailable == nil &&
		len(f.AccessibilityFeatures) == 0 &&
		f.City == ""
}
