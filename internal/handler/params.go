package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses the :id parameter. A non-numeric id can never match a
// record, so it is reported with notFound.
func pathID(c echo.Context, notFound error) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", notFound, raw)
	}
	return id, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return errInvalidBody.WithInternal(err)
	}
	return nil
}
