package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/services"
	"github.com/soluxsolar/solux-store/utils"
)

type ConsultationController struct {
	DB     *gorm.DB
	Mailer services.Mailer
	Outbox *services.Outbox
}

func NewConsultationController(db *gorm.DB, mailer services.Mailer, outbox *services.Outbox) *ConsultationController {
	return &ConsultationController{DB: db, Mailer: mailer, Outbox: outbox}
}

// CreateConsultation stores a site-survey request and alerts the sales
// inbox in the background.
func (cc *ConsultationController) CreateConsultation(c *gin.Context) {
	type request struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Phone   string `json:"phone" binding:"required"`
		Address string `json:"address" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	consult := models.Consultation{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Status:  "New",
	}

	if err := cc.DB.Create(&consult).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	saved := consult
	cc.Outbox.Enqueue("consult_alert", func(ctx context.Context) error {
		return cc.Mailer.SendConsultationAlert(&saved)
	})

	utils.RespondJSON(c, http.StatusCreated, "Consultation request received", gin.H{
		"consultation_id": consult.ID,
	})
}

// GetAllConsultations -> admin listing, newest first
func (cc *ConsultationController) GetAllConsultations(c *gin.Context) {
	var consults []models.Consultation
	if err := cc.DB.Order("created_at DESC").Find(&consults).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of consultations", consults)
}
