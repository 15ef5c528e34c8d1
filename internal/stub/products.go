package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

func (s *Server) listProducts(c *gin.Context) {
	items := s.store.listProducts(productFilter{
		ID:        c.Query("_id"),
		Nome:      c.Query("nome"),
		Descricao: c.Query("descricao"),
	})
	c.JSON(http.StatusOK, serverest.ProductList{Quantidade: len(items), Produtos: items})
}

func (s *Server) getProduct(c *gin.Context) {
	p, ok := s.store.getProduct(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, serverest.MessageBody{Message: serverest.MsgProductNotFound})
		return
	}
	c.JSON(http.StatusOK, p)
}

func bindProduct(c *gin.Context) (serverest.Product, bool) {
	var req serverest.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return serverest.Product{}, false
	}
	return serverest.Product{
		Nome:       req.Nome,
		Preco:      *req.Preco,
		Descricao:  req.Descricao,
		Quantidade: *req.Quantidade,
	}, true
}

func (s *Server) createProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	created, err := s.store.createProduct(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, serverest.MessageBody{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, serverest.CreatedBody{Message: serverest.MsgCreated, ID: created.ID})
}

// updateProduct creates the record when the id is unknown, as the real API does.
func (s *Server) updateProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	saved, created, err := s.store.putProduct(c.Param("id"), p)
	if err != nil {
		c.JSON(http.StatusBadRequest, serverest.MessageBody{Message: err.Error()})
		return
	}
	if created {
		c.JSON(http.StatusCreated, serverest.CreatedBody{Message: serverest.MsgCreated, ID: saved.ID})
		return
	}
	c.JSON(http.StatusOK, serverest.MessageBody{Message: serverest.MsgUpdated})
}

func (s *Server) deleteProduct(c *gin.Context) {
	msg := serverest.MsgNothingDeleted
	if s.store.deleteProduct(c.Param("id")) {
		msg = serverest.MsgDeleted
	}
	c.JSON(http.StatusOK, serverest.MessageBody{Message: msg})
}
