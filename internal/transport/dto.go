package transport

import "github.com/Skotchmaster/products_api/internal/models"

type CreateUserRequest struct {
	UserName string `json:"userName"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}
