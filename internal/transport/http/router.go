package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MightyHelper/WSD25-Assign02/internal/handlers"
	"github.com/MightyHelper/WSD25-Assign02/internal/metrics"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
)

type Deps struct {
	Resolver *authmw.Resolver
	Metrics  *metrics.Metrics

	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Authors  *handlers.AuthorHandler
	Books    *handlers.BookHandler
	Reviews  *handlers.ReviewHandler
	Comments *handlers.CommentHandler
	Orders   *handlers.OrderHandler
	Search   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	v1 := e.Group("/api/v1")
	require := d.Resolver.Require
	optional := d.Resolver.Optional
	admin := d.Resolver.RequireAdmin

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout, optional)

	users := v1.Group("/users")
	users.POST("", d.Users.CreateUser, admin)
	users.GET("/me", d.Users.GetMe, require)
	users.GET("/me/likes", d.Users.GetMyLikes, require)
	users.GET("/:id", d.Users.GetUser)
	users.PATCH("/:id/role", d.Users.UpdateRole, admin)

	authors := v1.Group("/authors")
	authors.POST("", d.Authors.CreateAuthor, admin)
	authors.GET("", d.Authors.ListAuthors)
	authors.GET("/:id", d.Authors.GetAuthor)

	books := v1.Group("/books")
	books.POST("", d.Books.CreateBook, admin)
	books.GET("", d.Books.ListBooks)
	books.GET("/:id", d.Books.GetBook)
	books.DELETE("/:id", d.Books.DeleteBook, admin)
	books.PATCH("/:id/like", d.Books.LikeBook, require)
	books.PUT("/:id/cover", d.Books.UploadCover, admin)
	books.GET("/:id/cover", d.Books.GetCover)

	reviews := v1.Group("/reviews")
	reviews.POST("", d.Reviews.CreateReview, require)
	reviews.GET("", d.Reviews.ListReviews)
	reviews.GET("/:id", d.Reviews.GetReview)
	reviews.DELETE("/:id", d.Reviews.DeleteReview, require)
	reviews.POST("/:id/comments", d.Comments.CreateComment, require)
	reviews.GET("/:id/comments", d.Comments.ListComments)

	comments := v1.Group("/comments")
	comments.DELETE("/:id", d.Comments.DeleteComment, require)
	comments.POST("/:id/like", d.Comments.LikeComment, require)
	comments.DELETE("/:id/like", d.Comments.UnlikeComment, require)

	orders := v1.Group("/orders", require)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.POST("/:id/items", d.Orders.SetItem)
	orders.GET("/:id/items", d.Orders.ListItems)
	orders.POST("/:id/pay", d.Orders.PayOrder)

	if d.Search != nil {
		v1.GET("/search", d.Search.Search)
	}
}
