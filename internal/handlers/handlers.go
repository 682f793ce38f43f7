package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"church-portal-api/pkg/lambda"
)

const defaultPageSize = 10

// decodeBody reads the JSON body into v. It returns the 400 response to
// send when the body is not valid JSON.
func decodeBody(req *lambda.Request, v any) *lambda.Response {
	if err := req.DecodeJSON(v); err != nil {
		if errors.Is(err, lambda.ErrInvalidBody) {
			return lambda.Error(http.StatusBadRequest, "InvalidRequestBody", "Invalid JSON in request body")
		}
		return lambda.InternalError()
	}
	return nil
}

// pageSize parses the limit query parameter. A missing limit is the
// default page size; range checks are left to the services.
func pageSize(req *lambda.Request) (int, *lambda.Response) {
	raw := req.Query("limit")
	if raw == "" {
		return defaultPageSize, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, lambda.Error(http.StatusBadRequest, "ValidationError", "limit must be an integer")
	}
	return limit, nil
}
