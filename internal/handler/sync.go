package handler

import (
	"net/http"

	"jaymapos/internal/worker"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct{ sched *worker.Scheduler }

func NewSyncHandler(sched *worker.Scheduler) *SyncHandler { return &SyncHandler{sched: sched} }

func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.sched.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// The trigger endpoints return 202 immediately: the job runs (or coalesces
// into a running pass) in the background.

func (h *SyncHandler) TriggerProducts(c *gin.Context) {
	h.sched.TriggerProductSync()
	c.Status(http.StatusAccepted)
}

func (h *SyncHandler) TriggerSales(c *gin.Context) {
	h.sched.TriggerSaleUpload()
	c.Status(http.StatusAccepted)
}

func (h *SyncHandler) TriggerDrafts(c *gin.Context) {
	h.sched.TriggerDraftSync()
	c.Status(http.StatusAccepted)
}

// Cancel aborts an in-flight catalog refresh. Already-persisted pages stay;
// the next pass starts over from page 1.
func (h *SyncHandler) Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cancelled": h.sched.CancelProductSync()})
}
