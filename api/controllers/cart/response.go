package cart

import (
	"github.com/angelmondragon/doccart/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/doccart/internal/cart"
)

func newCartView(snap cartsvc.Snapshot, flash string) dto.CartView {
	items := make([]dto.CartViewItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		view := dto.CartViewItem{
			DocumentID: item.DocumentID,
			Title:      item.Title(),
			Quantity:   item.Quantity,
		}
		if item.Document != nil {
			view.AllowedInCart = item.Document.IsAllowedInCart()
			if item.Document.QuantityLimited() {
				limit := item.Document.MaximumQuantity
				view.MaximumQuantity = &limit
			}
		}
		items = append(items, view)
	}
	return dto.CartView{
		Items:        items,
		BackURL:      snap.BackURL,
		ReceiverInfo: snap.ReceiverInfo,
		ViewOnly:     snap.ViewOnly,
		Empty:        snap.Empty,
		Flash:        flash,
	}
}

func newBulkUpdateResponse(res cartsvc.BulkUpdateResult) dto.BulkUpdateResponse {
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return dto.BulkUpdateResponse{
		Result:  len(res.Errors) == 0,
		Errors:  errs,
		Updated: res.Updated,
		Removed: res.Removed,
	}
}

func newSubmissionDetail(sub *cartsvc.Submission) dto.SubmissionDetail {
	items := make([]dto.SubmissionItem, 0, len(sub.Items))
	for _, item := range sub.Items {
		items = append(items, dto.SubmissionItem{DocumentID: item.DocumentID, Quantity: item.Quantity})
	}
	return dto.SubmissionDetail{
		ID:           sub.ID,
		ReceiverInfo: sub.ReceiverInfo,
		Items:        items,
		CreatedAt:    sub.CreatedAt,
	}
}
