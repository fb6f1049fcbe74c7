package models

// AuthData is the persisted identity document. It is created at OTP
// verification and destroyed at logout or on a session fault.
type AuthData struct {
	Token      string `json:"token"`
	PromoterID string `json:"promoterId"`
	VendorID   string `json:"vendorId"`
	ProjectID  string `json:"projectId"`
	CityID     string `json:"cityId"`
	CityName   string `json:"cityName"`
}

// LocationData is the persisted operating-location document. Once
// ActivityLocID is set it stays fixed for the session until an explicit
// reset or logout.
type LocationData struct {
	ActivityLocID   string `json:"activityLocId"`
	ActivityLocName string `json:"activityLocName"`
	ActivityID      string `json:"activityId"`
	CityID          string `json:"cityId"`
	CityName        string `json:"cityName"`
}

// SessionState is derived from the two documents, never stored.
type SessionState string

const (
	Unauthenticated           SessionState = "unauthenticated"
	AuthenticatedNoLocation   SessionState = "authenticated_no_location"
	AuthenticatedWithLocation SessionState = "authenticated_with_location"
)

// Promoter is the identity block returned by OTP verification.
type Promoter struct {
	ID         string   `json:"id"`
	VendorID   string   `json:"vendorId"`
	ProjectIDs []string `json:"projectIds"`
}
