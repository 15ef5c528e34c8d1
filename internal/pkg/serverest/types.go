package serverest

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginBody is the body of a login answer; Authorization is empty on failure.
type LoginBody struct {
	Message       string `json:"message"`
	Authorization string `json:"authorization,omitempty"`
}

// MessageBody is the body of update and delete answers and of most failures.
type MessageBody struct {
	Message string `json:"message"`
}

// CreatedBody is the body of POST /produtos and POST /usuarios.
type CreatedBody struct {
	Message string `json:"message"`
	ID      string `json:"_id,omitempty"`
}

// Product is a product record as listed by GET /produtos.
type Product struct {
	ID         string `json:"_id"`
	Nome       string `json:"nome"`
	Preco      int    `json:"preco"`
	Descricao  string `json:"descricao"`
	Quantidade int    `json:"quantidade"`
}

// ProductRequest is the body of POST/PUT /produtos.
type ProductRequest struct {
	Nome       string `json:"nome"       binding:"required"`
	Preco      *int   `json:"preco"      binding:"required,gt=0"`
	Descricao  string `json:"descricao"  binding:"required"`
	Quantidade *int   `json:"quantidade" binding:"required,gte=0"`
}

// ProductList is the body of GET /produtos.
type ProductList struct {
	Quantidade int       `json:"quantidade"`
	Produtos   []Product `json:"produtos"`
}

// User is a user record as listed by GET /usuarios.
type User struct {
	ID            string `json:"_id"`
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Administrador string `json:"administrador"`
}

// UserRequest is the body of POST/PUT /usuarios.
type UserRequest struct {
	Nome          string `json:"nome"          binding:"required"`
	Email         string `json:"email"         binding:"required,email"`
	Password      string `json:"password"      binding:"required"`
	Administrador string `json:"administrador" binding:"required,oneof=true false"`
}

// UserList is the body of GET /usuarios.
type UserList struct {
	Quantidade int    `json:"quantidade"`
	Usuarios   []User `json:"usuarios"`
}
