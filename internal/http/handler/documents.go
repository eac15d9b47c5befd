package handler

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"docflow/internal/http/middleware"
	"docflow/internal/model"
	"docflow/internal/service"
)

// homePage is the data passed to the document list template.
type homePage struct {
	User      *model.User
	Documents []model.DocumentSummary
	Flash     string
	SortBy    string
	Order     string
	NextOrder string
}

// uploadPage is the data passed to the upload form template.
type uploadPage struct {
	Flash string
}

// currentUser returns the user resolved by middleware.RequireUser.
func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(middleware.CurrentUserLocalKey).(*model.User)
	return user
}

// Home renders the document list. sort_by and order query parameters are
// free-form; the service normalizes them against the allow-lists.
func Home(store *session.Store, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sortBy := c.Query("sort_by", "file_date")
		order := c.Query("order", "desc")

		items, err := docs.List(c.UserContext(), sortBy, order)
		if err != nil {
			return err
		}

		nextOrder := "desc"
		if order == "desc" {
			nextOrder = "asc"
		}

		return render(c, "home", homePage{
			User:      currentUser(c),
			Documents: items,
			Flash:     popFlash(store, c),
			SortBy:    sortBy,
			Order:     order,
			NextOrder: nextOrder,
		})
	}
}

// UploadPage renders the upload form.
func UploadPage(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "upload", uploadPage{Flash: popFlash(store, c)})
	}
}

// UploadSubmit stores the posted multipart file as a new document owned by
// the current user.
func UploadSubmit(store *session.Store, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			setFlash(store, c, "A file is required")
			return c.Redirect("/upload", fiber.StatusFound)
		}

		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open uploaded file: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read uploaded file: %w", err)
		}

		_, err = docs.Upload(c.UserContext(), c.FormValue("title"), fh.Filename, data, currentUser(c).ID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTitleRequired):
				setFlash(store, c, "A title is required")
			case errors.Is(err, service.ErrFileRequired):
				setFlash(store, c, "A file is required")
			case errors.Is(err, service.ErrExtensionNotAllowed):
				setFlash(store, c, "This file type is not allowed")
			default:
				return err
			}
			return c.Redirect("/upload", fiber.StatusFound)
		}

		setFlash(store, c, "Document uploaded")
		return c.Redirect("/", fiber.StatusFound)
	}
}

// ChangeStatus sets a document's workflow status. Admin only; other callers
// are sent back to the list with a permission-denied notice and nothing
// is changed. A missing document id is a silent no-op.
func ChangeStatus(store *session.Store, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin() {
			setFlash(store, c, "Permission denied")
			return c.Redirect("/", fiber.StatusFound)
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrBadRequest
		}
		status, err := url.PathUnescape(c.Params("status"))
		if err != nil || status == "" {
			return fiber.ErrBadRequest
		}

		if err := docs.ChangeStatus(c.UserContext(), int64(id), status); err != nil {
			return err
		}

		setFlash(store, c, "Document status updated")
		return c.Redirect("/", fiber.StatusFound)
	}
}

// Delete removes a document. The service enforces the owner-or-admin policy.
func Delete(store *session.Store, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrBadRequest
		}

		if err := docs.Delete(c.UserContext(), int64(id), currentUser(c)); err != nil {
			if errors.Is(err, service.ErrPermissionDenied) {
				setFlash(store, c, "Permission denied")
				return c.Redirect("/", fiber.StatusFound)
			}
			return err
		}

		setFlash(store, c, "Document deleted")
		return c.Redirect("/", fiber.StatusFound)
	}
}

// Download streams the stored bytes as an attachment under the original
// file name. A missing document redirects to the list with a notice.
func Download(store *session.Store, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrBadRequest
		}

		f, err := docs.Download(c.UserContext(), int64(id))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				setFlash(store, c, "Document not found")
				return c.Redirect("/", fiber.StatusFound)
			}
			return err
		}

		c.Attachment(f.FileName)
		return c.Send(f.FileData)
	}
}
