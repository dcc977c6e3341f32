package web

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"

	// Image formats accepted for uploads.
	_ "image/jpeg"
	_ "image/png"

	"github.com/phantomcv/phantom/internal/faces"
)

// maxUploadBytes caps a single uploaded image.
const maxUploadBytes = 32 << 20

type detectResponse struct {
	Count int         `json:"count"`
	Faces []faces.Box `json:"faces"`
}

type encodeResponse struct {
	Count     int              `json:"count"`
	Encodings []faces.Encoding `json:"encodings"`
}

type compareResponse struct {
	Distance float64 `json:"distance"`
	Match    bool    `json:"match"`
}

type genderFace struct {
	Location faces.Box `json:"location"`
	Score    float64   `json:"score"`
	Label    string    `json:"label"`
}

type genderResponse struct {
	Count int          `json:"count"`
	Faces []genderFace `json:"faces"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	img, ok := formImage(w, r, "file")
	if !ok {
		return
	}
	upsample := queryInt(r, "upsample", faces.DefaultUpsample)

	var boxes []faces.Box
	var err error
	if queryBool(r, "cnn") {
		boxes, err = s.pipeline.DetectCNN(img, upsample)
	} else {
		boxes, err = s.pipeline.Detect(img, upsample)
	}
	if err != nil {
		serverError(w, "detecting faces", err)
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Count: len(boxes), Faces: boxes})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	img, ok := formImage(w, r, "file")
	if !ok {
		return
	}
	model, ok := queryModel(w, r)
	if !ok {
		return
	}
	jitter := queryInt(r, "jitter", faces.DefaultJitter)
	upsample := queryInt(r, "upsample", faces.DefaultUpsample)

	encodings, err := s.pipeline.Encode(img, nil, model, jitter, upsample)
	if err != nil {
		serverError(w, "encoding faces", err)
		return
	}
	writeJSON(w, http.StatusOK, encodeResponse{Count: len(encodings), Encodings: encodings})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	imgA, ok := formImage(w, r, "a")
	if !ok {
		return
	}
	imgB, ok := formImage(w, r, "b")
	if !ok {
		return
	}
	model, ok := queryModel(w, r)
	if !ok {
		return
	}
	jitter := queryInt(r, "jitter", faces.DefaultJitter)

	encA, err := s.singleEncoding(imgA, model, jitter)
	if err != nil {
		serverError(w, "encoding first image", err)
		return
	}
	encB, err := s.singleEncoding(imgB, model, jitter)
	if err != nil {
		serverError(w, "encoding second image", err)
		return
	}

	distance := faces.Compare(encA, encB)
	writeJSON(w, http.StatusOK, compareResponse{
		Distance: distance,
		Match:    distance <= faces.MatchTolerance,
	})
}

func (s *Server) handleGender(w http.ResponseWriter, r *http.Request) {
	img, ok := formImage(w, r, "file")
	if !ok {
		return
	}
	upsample := queryInt(r, "upsample", faces.DefaultUpsample)

	boxes, err := s.pipeline.Detect(img, upsample)
	if err != nil {
		serverError(w, "detecting faces", err)
		return
	}
	encodings, err := s.pipeline.Encode(img, boxes, faces.FivePoint, faces.DefaultJitter, upsample)
	if err != nil {
		serverError(w, "encoding faces", err)
		return
	}

	result := make([]genderFace, 0, len(encodings))
	for i, enc := range encodings {
		score, err := s.pipeline.EstimateGender(enc)
		if err != nil {
			serverError(w, "estimating gender", err)
			return
		}
		result = append(result, genderFace{
			Location: boxes[i],
			Score:    score,
			Label:    faces.InterpretGender(score),
		})
	}
	writeJSON(w, http.StatusOK, genderResponse{Count: len(result), Faces: result})
}

func (s *Server) singleEncoding(img image.Image, model faces.ShapeModel, jitter int) (faces.Encoding, error) {
	encodings, err := s.pipeline.Encode(img, nil, model, jitter, faces.DefaultUpsample)
	if err != nil {
		return faces.Encoding{}, err
	}
	if len(encodings) != 1 {
		return faces.Encoding{}, fmt.Errorf("expected exactly one face, found %d", len(encodings))
	}
	return encodings[0], nil
}

// formImage decodes the named multipart file field. It writes the error
// response itself and reports success via the bool.
func formImage(w http.ResponseWriter, r *http.Request, field string) (image.Image, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile(field)
	if err != nil {
		clientError(w, fmt.Sprintf("missing %q upload", field))
		return nil, false
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		clientError(w, fmt.Sprintf("decoding %q: unsupported or corrupt image", field))
		return nil, false
	}
	return img, true
}

func queryModel(w http.ResponseWriter, r *http.Request) (faces.ShapeModel, bool) {
	switch r.URL.Query().Get("model") {
	case "", "68p":
		return faces.SixtyEightPoint, true
	case "5p":
		return faces.FivePoint, true
	default:
		clientError(w, "model must be 5p or 68p")
		return 0, false
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func queryBool(r *http.Request, key string) bool {
	v := r.URL.Query().Get(key)
	return v == "1" || v == "true" || v == "yes"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func clientError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

func serverError(w http.ResponseWriter, context string, err error) {
	log.Printf("Error %s: %v", context, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": fmt.Sprintf("%s: %v", context, err),
	})
}
