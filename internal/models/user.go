package models

// UnknownUser логин и пароль из запроса. nil означает, что поле не пришло.
type UnknownUser struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
}

// User оператор мастерской. Hash хэш bcrypt и наружу не отдаётся.
type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Hash  string `json:"-"`
}
