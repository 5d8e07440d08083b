package cart

import (
	"net/http"

	"github.com/angelmondragon/doccart/api/controllers/cart/dto"
	"github.com/angelmondragon/doccart/api/responses"
	"github.com/angelmondragon/doccart/api/validators"
	cartsvc "github.com/angelmondragon/doccart/internal/cart"
	pkgerrors "github.com/angelmondragon/doccart/pkg/errors"
	"github.com/angelmondragon/doccart/pkg/logger"
)

const itemQuantityField = "ItemQuantity"

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
}

// CartAdd adds a quantity of a document. Script callers get the result as
// JSON; browsers are redirected with any validation message flashed.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		documentID, err := validators.ParseUUIDParam(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		backURL := r.URL.Query().Get("BackURL")
		res, err := svc.Add(r.Context(), sessionID, cartsvc.AddInput{
			DocumentID: documentID,
			Quantity:   quantityParam(r),
			BackURL:    backURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsJSON(r) {
			responses.WriteResult(w, res.Result, res.Message)
			return
		}
		if !res.Result {
			setFlash(w, r, res.Message)
		}
		redirect(w, r, backTarget(r, backURL))
	}
}

// CartDeduct lowers a document's quantity without validation.
func CartDeduct(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		documentID, err := validators.ParseUUIDParam(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deduct(r.Context(), sessionID, documentID, quantityParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsJSON(r) {
			responses.WriteResult(w, true, "")
			return
		}
		redirect(w, r, backTarget(r, r.URL.Query().Get("BackURL")))
	}
}

// CartRemove drops a document. The JSON result reports whether the cart
// still holds items.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		documentID, err := validators.ParseUUIDParam(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nonEmpty, err := svc.Remove(r.Context(), sessionID, documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsJSON(r) {
			responses.WriteResult(w, nonEmpty, "")
			return
		}
		redirect(w, r, backTarget(r, ""))
	}
}

// CartView returns the hydrated cart and consumes any pending flash message.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.View(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snap, takeFlash(w, r)))
	}
}

// CartUpdateItems applies the quantity form. Form posts return to the
// stored back URL on success and to the referring page on failure.
func CartUpdateItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jsonBody := validators.IsJSON(r)
		var quantities map[string]string
		if jsonBody {
			var payload dto.BulkUpdateRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			quantities = make(map[string]string, len(payload.ItemQuantity))
			for id, v := range payload.ItemQuantity {
				quantities[id] = quantityString(v)
			}
		} else {
			quantities, err = validators.FormBracketMap(r, itemQuantityField)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		res, err := svc.BulkUpdate(r.Context(), sessionID, quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if jsonBody || wantsJSON(r) {
			responses.WriteJSON(w, http.StatusOK, newBulkUpdateResponse(res))
			return
		}
		if len(res.Errors) > 0 {
			setFlash(w, r, res.Message())
			redirect(w, r, backTarget(r, ""))
			return
		}
		target := "/"
		if cartsvc.IsRelativeURL(res.BackURL) {
			target = res.BackURL
		}
		redirect(w, r, target)
	}
}

// CartSetReceiver replaces the receiver details stored on the cart.
func CartSetReceiver(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dto.ReceiverInfoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetReceiverInfo(r.Context(), sessionID, payload.Fields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"receiver_info": payload.Fields})
	}
}

// CartSubmit records the cart as a submission.
func CartSubmit(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Submit(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto.SubmissionResponse{SubmissionID: id})
	}
}

// CartSubmission returns one of the session's own submissions.
func CartSubmission(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Submission(r.Context(), sessionID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSubmissionDetail(sub))
	}
}

// CartEmpty removes every item from the cart.
func CartEmpty(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Empty(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if wantsJSON(r) {
			responses.WriteResult(w, true, "")
			return
		}
		redirect(w, r, backTarget(r, ""))
	}
}
