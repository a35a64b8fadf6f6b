package api

import (
	"net/http"

	"github.com/setara/authcore/pkg/httputil"
)

// LandingResponse describes the service at GET /
type LandingResponse struct {
	Project string `json:"project"`
	Owner   string `json:"owner"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

var landingInfo = LandingResponse{
	Project: "B2B Setara Commodity API",
	Owner:   "PT. Arga Bumi Indonesia",
	Version: "2.0.0",
	Docs:    "api-stg.b2bsetara.co.id/docs/",
}

// landing handles GET /
func landing(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, landingInfo)
}
