package request_models

type LocationSearchQuery struct {
	PlaceName string `form:"place_name" binding:"required"`
}

// RouteQuery uses pointers so that 0 is still a valid coordinate.
type RouteQuery struct {
	StartLon *float64 `form:"start_lon" binding:"required"`
	StartLat *float64 `form:"start_lat" binding:"required"`
	EndLon   *float64 `form:"end_lon" binding:"required"`
	EndLat   *float64 `form:"end_lat" binding:"required"`
}
