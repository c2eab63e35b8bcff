package model

// Faculty faculty table. IsAdmin marks the administrators.
type Faculty struct {
	ID           int64  `gorm:"primaryKey"                        json:"id"`
	Name         string `gorm:"type:varchar(120);not null"        json:"name"`
	Email        string `gorm:"type:varchar(160);not null;unique" json:"email"`
	Department   string `gorm:"type:varchar(80);not null"         json:"department"`
	IsAdmin      bool   `gorm:"not null;default:false"            json:"is_admin"`
	PasswordHash string `gorm:"type:varchar(255);not null"        json:"-"`
	BaseModel
}

// TableName table name.
func (Faculty) TableName() string { return "faculty" }

func (f *Faculty) AccountID() int64       { return f.ID }
func (f *Faculty) AccountRole() Role      { return RoleFaculty }
func (f *Faculty) DisplayName() string    { return f.Name }
func (f *Faculty) ContactEmail() string   { return f.Email }
func (f *Faculty) CredentialHash() string { return f.PasswordHash }
func (f *Faculty) Admin() bool            { return f.IsAdmin }
