package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sheacronin/locallibrary/catalog"
)

// Routes mounts the catalog pages and the health check on r.
func (h *CatalogHandler) Routes(r chi.Router) {
	svc := h.Catalog

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog", http.StatusFound)
	})
	r.Get("/health", h.Health)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.Index(r.Context()) }))

		r.Get("/authors", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.AuthorList(r.Context()) }))
		r.Route("/author", func(r chi.Router) {
			r.Get("/create", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.AuthorCreateForm(r.Context()) }))
			r.Post("/create", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.CreateAuthor(r.Context(), r.PostForm) }))
			r.Get("/{id}", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.AuthorDetail(r.Context(), id(r)) }))
			r.Get("/{id}/update", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.AuthorUpdateForm(r.Context(), id(r)) }))
			r.Post("/{id}/update", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.UpdateAuthor(r.Context(), id(r), r.PostForm) }))
			r.Get("/{id}/delete", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.AuthorDeleteForm(r.Context(), id(r)) }))
			r.Post("/{id}/delete", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.DeleteAuthor(r.Context(), id(r)) }))
		})

		r.Get("/genres", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.GenreList(r.Context()) }))
		r.Route("/genre", func(r chi.Router) {
			r.Get("/create", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.GenreCreateForm(r.Context()) }))
			r.Post("/create", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.CreateGenre(r.Context(), r.PostForm) }))
			r.Get("/{id}", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.GenreDetail(r.Context(), id(r)) }))
			r.Get("/{id}/update", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.GenreUpdateForm(r.Context(), id(r)) }))
			r.Post("/{id}/update", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.UpdateGenre(r.Context(), id(r), r.PostForm) }))
			r.Get("/{id}/delete", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.GenreDeleteForm(r.Context(), id(r)) }))
			r.Post("/{id}/delete", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.DeleteGenre(r.Context(), id(r)) }))
		})

		r.Get("/books", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookList(r.Context()) }))
		r.Route("/book", func(r chi.Router) {
			r.Get("/create", h.serve(func(r *http.Request) (catalog.Result, error) {
				return svc.BookCreateForm(r.Context(), r.URL.Query().Get("isbn"))
			}))
			r.Post("/create", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.CreateBook(r.Context(), r.PostForm) }))
			r.Get("/{id}", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookDetail(r.Context(), id(r)) }))
			r.Get("/{id}/update", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookUpdateForm(r.Context(), id(r)) }))
			r.Post("/{id}/update", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.UpdateBook(r.Context(), id(r), r.PostForm) }))
			r.Get("/{id}/delete", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookDeleteForm(r.Context(), id(r)) }))
			r.Post("/{id}/delete", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.DeleteBook(r.Context(), id(r)) }))
		})

		r.Get("/bookinstances", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookInstanceList(r.Context()) }))
		r.Route("/bookinstance", func(r chi.Router) {
			r.Get("/create", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookInstanceCreateForm(r.Context()) }))
			r.Post("/create", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.CreateBookInstance(r.Context(), r.PostForm) }))
			r.Get("/{id}", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookInstanceDetail(r.Context(), id(r)) }))
			r.Get("/{id}/update", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookInstanceUpdateForm(r.Context(), id(r)) }))
			r.Post("/{id}/update", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.UpdateBookInstance(r.Context(), id(r), r.PostForm) }))
			r.Get("/{id}/delete", h.serve(func(r *http.Request) (catalog.Result, error) { return svc.BookInstanceDeleteForm(r.Context(), id(r)) }))
			r.Post("/{id}/delete", h.submit(func(r *http.Request) (catalog.Result, error) { return svc.DeleteBookInstance(r.Context(), id(r)) }))
		})
	})
}
