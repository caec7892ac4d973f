package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kontak/internal/flash"
	"kontak/internal/logger"
	"kontak/internal/models"
	"kontak/internal/store"
	"kontak/internal/validate"
)

// Page titles, as the original views announce them.
const (
	titleList     = "contact"
	titleAddForm  = "Form Tambah Data Contact"
	titleEditForm = "Form Ubah Data Contact"
	titleDetail   = "Halaman Detail Contact"
	titleSearch   = "Form Cari Data Mahasiswa"
)

const (
	msgContactAdded   = "Kontak berhasil ditambahkan!"
	msgContactDeleted = "Kontak berhasil dihapus!"
	msgEditNotFound   = "Maaf data yang anda cari tidak ada!"
	msgSearchRequired = "Nama harus diisi untuk melakukan pencarian!"
)

// ContactController serves the contact CRUD, search and sort routes.
type ContactController struct {
	store     store.ContactStore
	validator *validate.ContactValidator
}

// NewContactController creates the controller for the contact routes.
func NewContactController(s store.ContactStore, v *validate.ContactValidator) *ContactController {
	return &ContactController{
		store:     s,
		validator: v,
	}
}

// Register attaches the contact routes to the router.
func (cc *ContactController) Register(r gin.IRouter) {
	r.GET("/contact", cc.list)
	r.GET("/contact/add", cc.addForm)
	r.POST("/contact", cc.create)
	r.DELETE("/contact", cc.delete)
	r.GET("/contact/edit/:id", cc.editForm)
	r.PUT("/contact", cc.update)
	r.GET("/contact/:id", cc.detail)
	r.POST("/cari", cc.search)
	r.GET("/sorting", cc.sorted)
}

// list renders every contact ordered by name.
func (cc *ContactController) list(ctx *gin.Context) {
	contacts, err := cc.store.FindAll(ctx.Request.Context(), store.SortAsc)
	if err != nil {
		logger.Log.Error("failed to list contacts", zap.Error(err))
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}

	cc.renderList(ctx, titleList, contacts)
}

// addForm renders the empty add-contact form.
func (cc *ContactController) addForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "add-contact.html", gin.H{
		"Title": titleAddForm,
	})
}

// create validates the submission and inserts the new contact. Validation
// failures re-render the form with the collected errors and submitted values.
func (cc *ContactController) create(ctx *gin.Context) {
	var contact models.Contact
	if err := ctx.ShouldBind(&contact); err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}

	errs, err := cc.validator.ValidateCreate(ctx.Request.Context(), contact)
	if err != nil {
		logger.Log.Error("duplicate check failed", zap.Error(err))
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}
	if len(errs) > 0 {
		cc.renderAddForm(ctx, contact, errs)
		return
	}

	if _, err := cc.store.Insert(ctx.Request.Context(), contact); err != nil {
		if errors.Is(err, store.ErrDuplicateStudentID) {
			// Lost the race between the duplicate check and the insert; the
			// unique index reports it the same way the validator would have.
			cc.renderAddForm(ctx, contact, validate.FieldErrors{
				{Field: validate.FieldStudentID, Message: validate.MsgDuplicateStudentID},
			})
			return
		}
		logger.Log.Error("failed to insert contact", zap.Error(err))
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}

	if err := flash.Set(ctx, flash.TypeSuccess, msgContactAdded); err != nil {
		logger.Log.Warn("failed to set flash notice", zap.Error(err))
	}
	ctx.Redirect(http.StatusFound, "/contact")
}

// delete removes the contact named by the submitted id. Unknown ids are
// treated as success; the user ends up on the list either way.
func (cc *ContactController) delete(ctx *gin.Context) {
	id := ctx.PostForm("id")

	if err := cc.store.Delete(ctx.Request.Context(), id); err != nil {
		logger.Log.Error("failed to delete contact", zap.Error(err), zap.String("id", id))
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}

	if err := flash.Set(ctx, flash.TypeDanger, msgContactDeleted); err != nil {
		logger.Log.Warn("failed to set flash notice", zap.Error(err))
	}
	ctx.Redirect(http.StatusFound, "/contact")
}

// editForm renders the edit form pre-filled with the stored contact.
func (cc *ContactController) editForm(ctx *gin.Context) {
	contact, err := cc.store.FindOne(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.String(http.StatusNotFound, msgEditNotFound)
		return
	}

	ctx.HTML(http.StatusOK, "edit-contact.html", gin.H{
		"Title":   titleEditForm,
		"Contact": contact,
	})
}

// update validates the edit submission and replaces the stored fields.
// The student id is read from the npm form key, with email kept as a legacy
// alias for payloads shaped like the original client.
func (cc *ContactController) update(ctx *gin.Context) {
	npm := ctx.PostForm(validate.FieldStudentID)
	if npm == "" {
		npm = ctx.PostForm("email")
	}

	contact := models.Contact{
		ID:        ctx.PostForm("_id"),
		Name:      ctx.PostForm(validate.FieldName),
		Phone:     ctx.PostForm(validate.FieldPhone),
		StudentID: npm,
	}
	previousStudentID := ctx.PostForm("oldnpm")

	errs, err := cc.validator.ValidateUpdate(ctx.Request.Context(), contact, previousStudentID)
	if err != nil {
		logger.Log.Error("duplicate check failed", zap.Error(err))
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}
	if len(errs) > 0 {
		cc.renderEditForm(ctx, contact, previousStudentID, errs)
		return
	}

	if err := cc.store.Update(ctx.Request.Context(), contact.ID, contact); err != nil {
		if errors.Is(err, store.ErrDuplicateStudentID) {
			cc.renderEditForm(ctx, contact, previousStudentID, validate.FieldErrors{
				{Field: validate.FieldStudentID, Message: validate.MsgDuplicateStudentID},
			})
			return
		}
		logger.Log.Error("failed to update contact", zap.Error(err), zap.String("id", contact.ID))
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}

	ctx.Redirect(http.StatusFound, "/contact")
}

// detail renders one contact.
func (cc *ContactController) detail(ctx *gin.Context) {
	contact, err := cc.store.FindOne(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", gin.H{
		"Title":   titleDetail,
		"Contact": contact,
	})
}

// search renders the contacts whose name matches the submitted text. Empty
// input and empty results both bounce back to the list with a notice, each
// with its own message.
func (cc *ContactController) search(ctx *gin.Context) {
	name := ctx.PostForm(validate.FieldName)

	contacts, err := cc.store.Search(ctx.Request.Context(), name)
	if err != nil {
		message := err.Error()
		if errors.Is(err, store.ErrEmptyQuery) {
			message = msgSearchRequired
		} else {
			logger.Log.Error("search failed", zap.Error(err))
		}
		if err := flash.Set(ctx, flash.TypeDanger, message); err != nil {
			logger.Log.Warn("failed to set flash notice", zap.Error(err))
		}
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}

	if len(contacts) == 0 {
		message := fmt.Sprintf("Mahasiswa dengan nama %q tidak ditemukan!", name)
		if err := flash.Set(ctx, flash.TypeDanger, message); err != nil {
			logger.Log.Warn("failed to set flash notice", zap.Error(err))
		}
		ctx.Redirect(http.StatusFound, "/contact")
		return
	}

	cc.renderList(ctx, titleSearch, contacts)
}

// sorted renders the list ordered by the sort query parameter, ascending for
// anything other than desc.
func (cc *ContactController) sorted(ctx *gin.Context) {
	order := store.SortAsc
	if ctx.Query("sort") == "desc" {
		order = store.SortDesc
	}

	contacts, err := cc.store.FindAll(ctx.Request.Context(), order)
	if err != nil {
		logger.Log.Error("failed to sort contacts", zap.Error(err))
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}

	cc.renderList(ctx, titleSearch, contacts)
}

// renderList renders the contact list view with any consumed flash notice.
func (cc *ContactController) renderList(ctx *gin.Context, title string, contacts []models.Contact) {
	data := gin.H{
		"Title":    title,
		"Contacts": contacts,
	}
	if notice, ok := flash.From(ctx); ok {
		data["Flash"] = notice
	}

	ctx.HTML(http.StatusOK, "contact.html", data)
}

func (cc *ContactController) renderAddForm(ctx *gin.Context, contact models.Contact, errs validate.FieldErrors) {
	ctx.HTML(http.StatusOK, "add-contact.html", gin.H{
		"Title":   titleAddForm,
		"Contact": contact,
		"Errors":  errs,
	})
}

func (cc *ContactController) renderEditForm(ctx *gin.Context, contact models.Contact, previousStudentID string, errs validate.FieldErrors) {
	ctx.HTML(http.StatusOK, "edit-contact.html", gin.H{
		"Title":   titleEditForm,
		"Contact": contact,
		"OldNPM":  previousStudentID,
		"Errors":  errs,
	})
}
