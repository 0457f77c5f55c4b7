package handlers

import (
  "errors"
  "net/http"

  "gorm.io/gorm"
)

// errorStatus maps service errors to the HTTP status carried by the uniform
// {"error": ...} envelope.
func errorStatus(err error) int {
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return http.StatusNotFound
  }
  return http.StatusInternalServerError
}
