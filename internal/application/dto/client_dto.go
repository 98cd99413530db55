package dto

// ClientRequest alta o actualización de cliente.
type ClientRequest struct {
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	RFC       string `json:"rfc,omitempty"`
}

// ClientResponse cliente en la respuesta.
type ClientResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	RFC       string `json:"rfc,omitempty"`
}
