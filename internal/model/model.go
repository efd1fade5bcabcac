// Package model contains GORM model definitions shared across packages.
// All models are driver-agnostic: they work with both PostgreSQL and SQLite.
package model

// User roles. Anything other than RoleAdmin is treated as a plain client.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Progress stage names accepted by the progress flag setters.
const (
	StageProfile    = "profile"
	StageAssessment = "assessment"
	StageCompliance = "compliance"
	StageFinancial  = "financial"
	StageDeployment = "deployment"
)

// Facility is a skilled nursing facility tracked for AB 2511 compliance.
// FacilityID comes from the state dataset and is the sole identity key:
// re-importing a row with an existing id fully replaces the prior record.
type Facility struct {
	FacilityID   string   `gorm:"type:text;primaryKey" json:"facility_id"`
	Name         string   `gorm:"type:text;not null;default:''" json:"name"`
	Address      string   `gorm:"type:text;not null;default:''" json:"address"`
	City         string   `gorm:"type:text;not null;default:''" json:"city"`
	Zip          string   `gorm:"type:text;not null;default:''" json:"zip"`
	County       string   `gorm:"type:text;not null;default:''" json:"county"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	NumBeds      int      `gorm:"not null;default:0" json:"num_beds"`
	CertType     string   `gorm:"type:text;not null;default:''" json:"cert_type"`
	Status       string   `gorm:"type:text;not null;default:''" json:"status"`
	ContactEmail *string  `gorm:"type:text" json:"contact_email"`
	ContactPhone *string  `gorm:"type:text" json:"contact_phone"`
	InPSPSZone   *bool    `gorm:"column:in_psps_zone" json:"in_psps_zone"`
	InFireZone   *bool    `json:"in_fire_zone"`
	InQuakeZone  *bool    `gorm:"column:in_earthquake_zone" json:"in_earthquake_zone"`
	OutageScore  *float64 `json:"outage_score"`
}

// Normalize clamps fields that must never be stored in an invalid state.
// Nullable fields are pointers and stay nil when absent; this is the single
// defaulting point for the entity (handlers and the importer never default
// fields themselves).
func (f *Facility) Normalize() {
	if f.NumBeds < 0 {
		f.NumBeds = 0
	}
}

// FacilityPatch carries a partial facility update. Nil fields are left
// untouched by the store's shallow merge.
type FacilityPatch struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	Zip          *string  `json:"zip"`
	County       *string  `json:"county"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	NumBeds      *int     `json:"num_beds"`
	CertType     *string  `json:"cert_type"`
	Status       *string  `json:"status"`
	ContactEmail *string  `json:"contact_email"`
	ContactPhone *string  `json:"contact_phone"`
	InPSPSZone   *bool    `json:"in_psps_zone"`
	InFireZone   *bool    `json:"in_fire_zone"`
	InQuakeZone  *bool    `json:"in_earthquake_zone"`
	OutageScore  *float64 `json:"outage_score"`
}

// Apply shallow-merges the patch into f.
func (p FacilityPatch) Apply(f *Facility) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Address != nil {
		f.Address = *p.Address
	}
	if p.City != nil {
		f.City = *p.City
	}
	if p.Zip != nil {
		f.Zip = *p.Zip
	}
	if p.County != nil {
		f.County = *p.County
	}
	if p.Latitude != nil {
		f.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		f.Longitude = p.Longitude
	}
	if p.NumBeds != nil {
		f.NumBeds = *p.NumBeds
	}
	if p.CertType != nil {
		f.CertType = *p.CertType
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.ContactEmail != nil {
		f.ContactEmail = p.ContactEmail
	}
	if p.ContactPhone != nil {
		f.ContactPhone = p.ContactPhone
	}
	if p.InPSPSZone != nil {
		f.InPSPSZone = p.InPSPSZone
	}
	if p.InFireZone != nil {
		f.InFireZone = p.InFireZone
	}
	if p.InQuakeZone != nil {
		f.InQuakeZone = p.InQuakeZone
	}
	if p.OutageScore != nil {
		f.OutageScore = p.OutageScore
	}
	f.Normalize()
}

// FacilityProgress tracks the five-stage compliance lifecycle for one
// facility. The facility_id unique index keeps UpsertProgress atomic:
// there is never more than one row per facility.
type FacilityProgress struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID         string `gorm:"type:text;not null;uniqueIndex" json:"facility_id"`
	UserID             *int64 `json:"user_id"`
	ProfileComplete    *bool  `json:"profile_complete"`
	AssessmentComplete *bool  `json:"assessment_complete"`
	ComplianceComplete *bool  `json:"compliance_complete"`
	FinancialComplete  *bool  `json:"financial_complete"`
	DeploymentComplete *bool  `json:"deployment_complete"`
	// LastUpdated is caller-supplied and not server-verified.
	LastUpdated string `gorm:"type:text;not null;default:''" json:"last_updated"`
}

// TableName matches the table name used by the postgres migrations.
func (FacilityProgress) TableName() string { return "facility_progress" }

// SetStage sets one completion flag by stage name. Returns false for an
// unknown stage.
func (p *FacilityProgress) SetStage(stage string, value bool) bool {
	v := value
	switch stage {
	case StageProfile:
		p.ProfileComplete = &v
	case StageAssessment:
		p.AssessmentComplete = &v
	case StageCompliance:
		p.ComplianceComplete = &v
	case StageFinancial:
		p.FinancialComplete = &v
	case StageDeployment:
		p.DeploymentComplete = &v
	default:
		return false
	}
	return true
}

// Stage returns the named completion flag (nil when never set).
func (p *FacilityProgress) Stage(stage string) *bool {
	switch stage {
	case StageProfile:
		return p.ProfileComplete
	case StageAssessment:
		return p.AssessmentComplete
	case StageCompliance:
		return p.ComplianceComplete
	case StageFinancial:
		return p.FinancialComplete
	case StageDeployment:
		return p.DeploymentComplete
	}
	return nil
}

// Merge copies non-nil flags (and a non-empty LastUpdated / UserID) from
// in onto p, so a partial save never clears flags set by an earlier save.
func (p *FacilityProgress) Merge(in FacilityProgress) {
	if in.UserID != nil {
		p.UserID = in.UserID
	}
	if in.ProfileComplete != nil {
		p.ProfileComplete = in.ProfileComplete
	}
	if in.AssessmentComplete != nil {
		p.AssessmentComplete = in.AssessmentComplete
	}
	if in.ComplianceComplete != nil {
		p.ComplianceComplete = in.ComplianceComplete
	}
	if in.FinancialComplete != nil {
		p.FinancialComplete = in.FinancialComplete
	}
	if in.DeploymentComplete != nil {
		p.DeploymentComplete = in.DeploymentComplete
	}
	if in.LastUpdated != "" {
		p.LastUpdated = in.LastUpdated
	}
}

// User is the GORM model for the users table. Password holds the scrypt
// hash in "hash.salt" form and is never serialised into API responses.
type User struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string  `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Password string  `gorm:"type:text;not null" json:"-"`
	Role     string  `gorm:"type:text;not null;default:'client'" json:"role"`
	Name     *string `gorm:"type:text" json:"name"`
	Email    *string `gorm:"type:text" json:"email"`
	// CreatedAt is caller-supplied at registration time and kept as an
	// opaque string rather than a server timestamp.
	CreatedAt string `gorm:"type:text;not null;default:''" json:"created_at"`
}

// Normalize applies the role default.
func (u *User) Normalize() {
	if u.Role == "" {
		u.Role = RoleClient
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
