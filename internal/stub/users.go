package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

func (s *Server) listUsers(c *gin.Context) {
	items := s.store.listUsers(userFilter{
		ID:            c.Query("_id"),
		Nome:          c.Query("nome"),
		Email:         c.Query("email"),
		Administrador: c.Query("administrador"),
	})
	c.JSON(http.StatusOK, serverest.UserList{Quantidade: len(items), Usuarios: items})
}

func (s *Server) getUser(c *gin.Context) {
	u, ok := s.store.getUser(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, serverest.MessageBody{Message: serverest.MsgUserNotFound})
		return
	}
	c.JSON(http.StatusOK, u)
}

func bindUser(c *gin.Context) (serverest.User, bool) {
	var req serverest.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return serverest.User{}, false
	}
	return serverest.User{
		Nome:          req.Nome,
		Email:         req.Email,
		Password:      req.Password,
		Administrador: req.Administrador,
	}, true
}

func (s *Server) createUser(c *gin.Context) {
	u, ok := bindUser(c)
	if !ok {
		return
	}
	created, err := s.store.createUser(u)
	if err != nil {
		c.JSON(http.StatusBadRequest, serverest.MessageBody{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, serverest.CreatedBody{Message: serverest.MsgCreated, ID: created.ID})
}

func (s *Server) updateUser(c *gin.Context) {
	u, ok := bindUser(c)
	if !ok {
		return
	}
	saved, created, err := s.store.putUser(c.Param("id"), u)
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

func (s *Server) deleteUser(c *gin.Context) {
	msg := serverest.MsgNothingDeleted
	if s.store.deleteUser(c.Param("id")) {
		msg = serverest.MsgDeleted
	}
	c.JSON(http.StatusOK, serverest.MessageBody{Message: msg})
}
