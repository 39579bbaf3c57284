// Package woocommerce implements the read-only client for the WooCommerce
// REST API (wp-json/wc/v3). It authenticates with a consumer key/secret pair
// and exposes the three lookups the bridge needs: products, product
// categories and single orders.
package woocommerce

// WooErrorResponse represents a WooCommerce API error.
//
//	{"code":"woocommerce_rest_shop_order_invalid_id","message":"Invalid ID.","data":{"status":404}}
type WooErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}
