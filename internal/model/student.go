package model

// Student students table.
type Student struct {
	ID             int64  `gorm:"primaryKey"                        json:"id"`
	Name           string `gorm:"type:varchar(120);not null"        json:"name"`
	RegisterNumber string `gorm:"type:varchar(40);not null;unique"  json:"register_number"`
	Email          string `gorm:"type:varchar(160);not null"        json:"email"`
	Department     string `gorm:"type:varchar(80);not null"         json:"department"`
	Semester       int    `gorm:"type:smallint;not null;default:1"  json:"semester"`
	PasswordHash   string `gorm:"type:varchar(255);not null"        json:"-"`
	BaseModel
}

// TableName table name.
func (Student) TableName() string { return "students" }

func (s *Student) AccountID() int64       { return s.ID }
func (s *Student) AccountRole() Role      { return RoleStudent }
func (s *Student) DisplayName() string    { return s.Name }
func (s *Student) ContactEmail() string   { return s.Email }
func (s *Student) CredentialHash() string { return s.PasswordHash }
func (s *Student) Admin() bool            { return false }
