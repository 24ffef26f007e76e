package database

import "time"

// User is the single admin account.
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	EmailVerified bool      `gorm:"column:email_verified;not null" json:"emailVerified"`
	Image         *string   `gorm:"size:512" json:"image"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "user" }

// Session is one sign-in. Deleting the row revokes it.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	IPAddress string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:512"`
	UserID    string    `gorm:"size:36;not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Session) TableName() string { return "session" }

// Account stores credentials for one sign-in method. Email/password uses providerId=credential.
type Account struct {
	ID                    string `gorm:"primaryKey;size:36"`
	AccountID             string `gorm:"size:255;not null"`
	ProviderID            string `gorm:"size:64;not null"`
	UserID                string `gorm:"size:36;not null;index"`
	User                  User   `gorm:"constraint:OnDelete:CASCADE"`
	AccessToken           *string
	RefreshToken          *string
	IDToken               *string
	AccessTokenExpiresAt  *time.Time
	RefreshTokenExpiresAt *time.Time
	Scope                 *string
	Password              *string `gorm:"size:255"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (Account) TableName() string { return "account" }

// Verification is reserved for one-time tokens such as email verification.
type Verification struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Identifier string    `gorm:"size:255;not null;index"`
	Value      string    `gorm:"size:255;not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

func (Verification) TableName() string { return "verification" }

// Identity is the serial primary key shared by all content tables.
type Identity struct {
	ID uint `gorm:"primaryKey" json:"id" yaml:"-"`
}

// SetID overwrites the primary key.
func (i *Identity) SetID(id uint) { i.ID = id }

// GetID returns the primary key.
func (i *Identity) GetID() uint { return i.ID }

// Hero is the landing banner. Singleton.
type Hero struct {
	Identity
	Title       string    `gorm:"size:255;not null" json:"title" yaml:"title" binding:"required,max=100"`
	Subtitle    *string   `gorm:"size:255" json:"subtitle" yaml:"subtitle" binding:"omitempty,max=100"`
	Description *string   `gorm:"type:text" json:"description" yaml:"description" binding:"omitempty,max=500"`
	Image       *string   `gorm:"size:512" json:"image" yaml:"image"`
	CTAText     *string   `gorm:"column:cta_text;size:255" json:"ctaText" yaml:"ctaText" binding:"omitempty,max=50"`
	CTAURL      *string   `gorm:"column:cta_url;size:512" json:"ctaUrl" yaml:"ctaUrl" binding:"omitempty,optionalurl"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

func (Hero) TableName() string { return "hero" }

// About is the biography block. Singleton.
type About struct {
	Identity
	Title       string    `gorm:"size:255;not null" json:"title" yaml:"title" binding:"max=100"`
	Description string    `gorm:"type:text;not null" json:"description" yaml:"description" binding:"required,max=2000"`
	Image       *string   `gorm:"size:512" json:"image" yaml:"image" binding:"omitempty,optionalurl"`
	ResumeURL   *string   `gorm:"column:resume_url;size:512" json:"resumeUrl" yaml:"resumeUrl" binding:"omitempty,optionalurl"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

func (About) TableName() string { return "about" }

// Project is one portfolio entry. TechStack is a comma separated list.
type Project struct {
	Identity
	Title       string    `gorm:"size:255;not null" json:"title" yaml:"title" binding:"required,max=100"`
	Description string    `gorm:"type:text;not null" json:"description" yaml:"description" binding:"max=500"`
	Image       *string   `gorm:"size:512" json:"image" yaml:"image" binding:"omitempty,optionalurl"`
	LiveURL     *string   `gorm:"column:live_url;size:512" json:"liveUrl" yaml:"liveUrl" binding:"omitempty,optionalurl"`
	GithubURL   *string   `gorm:"column:github_url;size:512" json:"githubUrl" yaml:"githubUrl" binding:"omitempty,optionalurl"`
	TechStack   *string   `gorm:"column:tech_stack;size:255" json:"techStack" yaml:"techStack" binding:"omitempty,max=200"`
	Featured    bool      `gorm:"not null" json:"featured" yaml:"featured"`
	Order       int       `gorm:"column:order;not null" json:"order" yaml:"order" binding:"min=0"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

func (Project) TableName() string { return "projects" }

// Skill is one entry of the skills grid. Category is free text.
type Skill struct {
	Identity
	Name        string  `gorm:"size:255;not null" json:"name" yaml:"name" binding:"required,max=50"`
	Category    string  `gorm:"size:255;not null" json:"category" yaml:"category" binding:"required"`
	Proficiency int     `gorm:"not null" json:"proficiency" yaml:"proficiency" binding:"min=0,max=100"`
	Icon        *string `gorm:"size:255" json:"icon" yaml:"icon" binding:"omitempty,max=50"`
	Order       int     `gorm:"column:order;not null" json:"order" yaml:"order" binding:"min=0"`
}

func (Skill) TableName() string { return "skills" }

// Experience is one position. Dates are free YYYY-MM strings, an empty EndDate means present.
type Experience struct {
	Identity
	Company     string  `gorm:"size:255;not null" json:"company" yaml:"company" binding:"required,max=100"`
	Role        string  `gorm:"size:255;not null" json:"role" yaml:"role" binding:"required,max=100"`
	Description *string `gorm:"type:text" json:"description" yaml:"description" binding:"omitempty,max=1000"`
	StartDate   string  `gorm:"column:start_date;size:32;not null" json:"startDate" yaml:"startDate" binding:"required"`
	EndDate     *string `gorm:"column:end_date;size:32" json:"endDate" yaml:"endDate"`
	Location    *string `gorm:"size:255" json:"location" yaml:"location" binding:"omitempty,max=100"`
	Order       int     `gorm:"column:order;not null" json:"order" yaml:"order" binding:"min=0"`
}

func (Experience) TableName() string { return "experience" }

// Contact holds the public contact links. Singleton.
type Contact struct {
	Identity
	Email     *string   `gorm:"size:255" json:"email" yaml:"email" binding:"omitempty,optionalemail"`
	Phone     *string   `gorm:"size:64" json:"phone" yaml:"phone" binding:"omitempty,max=20"`
	Location  *string   `gorm:"size:255" json:"location" yaml:"location" binding:"omitempty,max=100"`
	Github    *string   `gorm:"size:512" json:"github" yaml:"github" binding:"omitempty,optionalurl"`
	Linkedin  *string   `gorm:"size:512" json:"linkedin" yaml:"linkedin" binding:"omitempty,optionalurl"`
	Twitter   *string   `gorm:"size:512" json:"twitter" yaml:"twitter" binding:"omitempty,optionalurl"`
	Website   *string   `gorm:"size:512" json:"website" yaml:"website" binding:"omitempty,optionalurl"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

func (Contact) TableName() string { return "contact" }

// AllModels lists every table migrated at startup.
func AllModels() []any {
	return []any{
		&User{},
		&Session{},
		&Account{},
		&Verification{},
		&Hero{},
		&About{},
		&Project{},
		&Skill{},
		&Experience{},
		&Contact{},
	}
}
