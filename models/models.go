package models

// This file serves as the central export point for all database models.
// Import this package to access all model types.

// Database schema overview:
// 1. users - Account records, managed by cookie-based authentication
// 2. refresh_tokens - Hashed refresh tokens belonging to a user
// 3. personal_information - At most one row per user
// 4. education - Degrees, newest start_date first
// 5. work_experience - Positions held, newest start_date first
// 6. skill - Skills with a free-form level, alphabetical
// 7. certification - Certifications, newest date_received first
// 8. project - Projects, newest start_date first
//
// Every CV table carries a user_id foreign key with ON DELETE CASCADE.

// SortKey is one column of a record kind's default ordering.
type SortKey struct {
	Column string
	Desc   bool
	// Binary forces a byte-wise collation so ordering does not depend on the
	// database locale.
	Binary bool
}

// Record is implemented by every CV entity kind.
type Record interface {
	TableName() string
	RecordID() uint
	SetID(id uint)
	OwnerID() string
	SetOwner(userID string)
	SortKeys() []SortKey
	Normalize()
	Validate() error
}

// RecordPtr constrains generic code to pointers of record structs.
type RecordPtr[T any] interface {
	*T
	Record
}

// SingletonRecord marks kinds that allow at most one row per user.
type SingletonRecord interface {
	Record
	SingletonPerUser()
}

// CV is the complete curriculum vitae of one user.
type CV struct {
	PersonalInformation *PersonalInformation `json:"personal_information"`
	Education           []Education          `json:"education"`
	WorkExperience      []WorkExperience     `json:"work_experience"`
	Skills              []Skill              `json:"skills"`
	Certifications      []Certification      `json:"certifications"`
	Projects            []Project            `json:"projects"`
}
