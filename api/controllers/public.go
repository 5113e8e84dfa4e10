package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/api/responses"
	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/internal/orders"
	"github.com/sellboxapp/sellbox-backend/internal/sessions"
	"github.com/sellboxapp/sellbox-backend/pkg/config"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
)

// PublicSessionResolve looks up an active session by its share code and bumps
// the view counter.
func PublicSessionResolve(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		session, err := svc.ResolveCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// PublicBuyerLookup returns the cached autofill entry for a name and nickname
// pair, plus whether this would be the buyer's first order in the session.
func PublicBuyerLookup(svc buyercache.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "buyer cache unavailable"))
			return
		}

		code := sessions.NormalizeCode(chi.URLParam(r, "code"))
		name := r.URL.Query().Get("name")
		nickname := r.URL.Query().Get("nickname")
		if buyercache.BuyerKey(name, nickname) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "name and nickname are required"))
			return
		}

		entry, err := svc.Lookup(r.Context(), code, name, nickname)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		firstOrder, err := svc.IsFirstOrder(r.Context(), code, name, nickname)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"entry":          entry,
			"is_first_order": firstOrder,
		})
	}
}

// PublicLastBuyer returns the most recent buyer entry for a session, used to
// prefill a shared device between back-to-back orders.
func PublicLastBuyer(svc buyercache.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "buyer cache unavailable"))
			return
		}

		code := sessions.NormalizeCode(chi.URLParam(r, "code"))
		entry, buyerKey, err := svc.LastBuyer(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"entry":     entry,
			"buyer_key": buyerKey,
		})
	}
}

// PublicOrderSubmit accepts the multipart order form from an unauthenticated
// buyer. The image arrives as the "image" file part, everything else as plain
// form fields.
func PublicOrderSubmit(svc orders.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		maxBytes := int64(media.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		input := orders.SubmitOrderInput{
			BuyerName:      r.FormValue("name"),
			BuyerNickname:  r.FormValue("nickname"),
			BuyerPhone:     r.FormValue("phone"),
			BuyerContact:   r.FormValue("contact"),
			Zipcode:        r.FormValue("zipcode"),
			Address1:       r.FormValue("address1"),
			Address2:       r.FormValue("address2"),
			DeliveryNote:   r.FormValue("delivery_note"),
			ProductNote:    r.FormValue("product_note"),
			BuyerPriceInfo: r.FormValue("buyer_price_info"),
		}

		if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
				return
			}
			input.Amount = &amount
		}
		if raw := strings.TrimSpace(r.FormValue("payment_method")); raw != "" {
			method, err := enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			input.PaymentMethod = &method
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "a product image is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image"))
			return
		}
		input.Image = orders.ImageUpload{
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        data,
		}

		order, err := svc.Submit(r.Context(), chi.URLParam(r, "code"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// PublicOrderReceipt returns the buyer-facing view of a submitted order.
func PublicOrderReceipt(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetPublic(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
