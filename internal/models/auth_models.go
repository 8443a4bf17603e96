package models

// DefaultUserType is assigned to every registered user.
const DefaultUserType = "operador"

// User represents an operator account. The password hash is never serialized.
type User struct {
	ID           int64   `json:"id" db:"id"`
	Nome         string  `json:"nome" db:"nome"`
	Email        string  `json:"email" db:"email"`
	Senha        string  `json:"-" db:"senha"`
	Tipo         string  `json:"tipo" db:"tipo"`
	Foto         *string `json:"foto" db:"foto"`
	NomeComercio *string `json:"nome_comercio" db:"nome_comercio"`
	CriadoEm     string  `json:"criado_em,omitempty" db:"criado_em"`
}

// Credentials for login request
type Credentials struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// RegistrationPayload for user registration
type RegistrationPayload struct {
	Nome  string `json:"nome" binding:"required"`
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// UserUpdate replaces a user's profile. The password changes only when Senha is set.
type UserUpdate struct {
	Nome         string  `json:"nome" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Senha        string  `json:"senha,omitempty"`
	Foto         *string `json:"foto"`
	NomeComercio *string `json:"nome_comercio"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Usuario *User  `json:"usuario"`
}

// Session is the single persisted login of the desktop client.
type Session struct {
	UsuarioID int64  `json:"usuario_id" db:"usuario_id"`
	Email     string `json:"email" db:"email"`
}
