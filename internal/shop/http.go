package shop

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/internal/catalog"
	"CampusStore/pkg/kit"
)

const maxFormBytes = 16 << 10

type Server struct {
	Proc    *Processor
	Catalog catalog.Store
	Log     *zap.Logger
}

type homeResp struct {
	Username string            `json:"username"`
	Balance  int64             `json:"balance"`
	Products []catalog.Product `json:"products"`
}

func (s *Server) HandleHome(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	products, err := s.Catalog.ListSortedByID(r.Context())
	if err != nil {
		s.Log.Error("list products", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, homeResp{Username: u.Username, Balance: u.Balance, Products: products})
}

type productResp struct {
	Product catalog.Product `json:"product"`
	Admin   bool            `json:"admin"`
}

func (s *Server) HandleProduct(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), nil)
		return
	}

	p, found, err := s.Catalog.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get product", zap.Error(err), zap.Int("product_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, productResp{Product: p, Admin: u.IsAdmin})
}

// HandlePurchase reads product_id and quantity from the form. A price field,
// if the client sends one, is ignored: the catalog is the only price source.
func (s *Server) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed form body", nil)
		return
	}

	if !r.PostForm.Has("product_id") || !r.PostForm.Has("quantity") {
		kit.WriteError(w, r, http.StatusBadRequest, "request is missing required fields", nil)
		return
	}

	productID, err := strconv.Atoi(r.PostForm.Get("product_id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), nil)
		return
	}

	quantity, err := strconv.Atoi(r.PostForm.Get("quantity"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, ErrInvalidQuantity.Error(), nil)
		return
	}

	rec, err := s.Proc.Purchase(r.Context(), u, productID, quantity)
	if err != nil {
		s.writePurchaseError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, rec)
}

func (s *Server) writePurchaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		kit.WriteError(w, r, http.StatusBadRequest, ErrInvalidQuantity.Error(), nil)
	case errors.Is(err, ErrInvalidProduct):
		kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), nil)
	case errors.Is(err, auth.ErrInsufficientFunds):
		kit.WriteError(w, r, http.StatusPaymentRequired, "cannot make purchase due to insufficient funds", nil)
	case errors.Is(err, auth.ErrUserNotFound):
		// The account vanished between session resolution and the debit.
		http.Redirect(w, r, "/login", http.StatusFound)
	default:
		s.Log.Error("purchase", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	recent, err := s.Proc.RecentPurchases(r.Context(), recentWindow)
	if err != nil {
		s.Log.Error("recent purchases", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"purchases": recent})
}

func (s *Server) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed form body", nil)
		return
	}

	if !r.PostForm.Has("product_id") || !r.PostForm.Has("description") {
		kit.WriteError(w, r, http.StatusBadRequest, "request is missing required fields", nil)
		return
	}

	productID, err := strconv.Atoi(r.PostForm.Get("product_id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), nil)
		return
	}

	if err := s.Proc.UpdateProductDescription(r.Context(), productID, r.PostForm.Get("description")); err != nil {
		if errors.Is(err, ErrInvalidProduct) {
			kit.WriteError(w, r, http.StatusNotFound, ErrInvalidProduct.Error(), nil)
			return
		}
		s.Log.Error("update product", zap.Error(err), zap.Int("product_id", productID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/product/%d", productID), http.StatusSeeOther)
}
