package routes

import (
	"net/http"

	"sambok/auth"
	"sambok/blogs"
	"sambok/cart"
	"sambok/checkout"
	"sambok/middleware"
	"sambok/orders"
	"sambok/products"
	"sambok/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/signup", rl.Limit(auth.Signup))
	router.POST("/api/v1/auth/login", rl.Limit(auth.Login))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/products", products.ListProducts)
	router.GET("/api/v1/products/:productid", products.GetProduct)
	router.POST("/api/v1/products", rl.Limit(middleware.Authenticate(products.CreateProduct)))
	router.PUT("/api/v1/products/:productid", rl.Limit(middleware.Authenticate(products.UpdateProduct)))
	router.POST("/api/v1/products/:productid/image", rl.Limit(middleware.Authenticate(products.UploadProductImage)))
	router.PUT("/api/v1/products/:productid/discount", rl.Limit(middleware.Authenticate(products.SetDiscount)))
	router.DELETE("/api/v1/products/:productid/discount", rl.Limit(middleware.Authenticate(products.RemoveDiscount)))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/v1/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.PUT("/api/v1/cart/:productid", rl.Limit(middleware.Authenticate(cart.UpdateCartItem)))
	router.DELETE("/api/v1/cart/:productid", rl.Limit(middleware.Authenticate(cart.RemoveFromCart)))
	router.POST("/api/v1/coupons/validate", rl.Limit(middleware.Authenticate(cart.ValidateCouponHandler)))
}

func AddCheckoutRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *checkout.Handler) {
	router.POST("/api/v1/checkout", rl.Limit(middleware.Authenticate(h.Checkout)))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/v1/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/v1/orders/:orderid/receipt", rl.Limit(middleware.Authenticate(orders.OrderReceipt)))
	// the stream authenticates via ?token= because browsers cannot set
	// headers on WebSocket upgrades
	router.GET("/ws/orders/:orderid", orders.OrderStream)
}

func AddBlogRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/blogs", blogs.ListBlogPosts)
	router.GET("/api/v1/blogs/:postid", blogs.GetBlogPost)
	router.POST("/api/v1/blogs", rl.Limit(middleware.Authenticate(blogs.CreateBlogPost)))
	router.PUT("/api/v1/blogs/:postid", rl.Limit(middleware.Authenticate(blogs.UpdateBlogPost)))
	router.DELETE("/api/v1/blogs/:postid", rl.Limit(middleware.Authenticate(blogs.DeleteBlogPost)))
}
