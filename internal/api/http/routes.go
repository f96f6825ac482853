package httpapi

import (
	"context"
	"errors"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/global-weather-forecast/internal/forecast"
	"github.com/i474232898/global-weather-forecast/internal/metrics"
)

var validate = newValidator()

// newValidator builds a validator that reports fields by their JSON names so
// error details match what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorHandler renders every handler error as {"detail": message}, the shape
// the frontend expects for all failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"detail": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. counters may be
// nil in tests.
func RegisterRoutes(app *fiber.App, service *forecast.Service, counters *metrics.Counters, requestTimeout time.Duration) {
	app.Post("/predict_temperature/", func(c *fiber.Ctx) error {
		var req forecast.PredictionRequest
		if err := c.BodyParser(&req); err != nil {
			counters.RecordValidationFailure()
			return fiber.NewError(fiber.StatusBadRequest, "request body must be valid JSON")
		}

		if err := validate.Struct(req); err != nil {
			counters.RecordValidationFailure()
			return fiber.NewError(fiber.StatusUnprocessableEntity, validationDetail(err))
		}

		ctx := c.UserContext()
		if requestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, requestTimeout)
			defer cancel()
		}

		result, err := service.Predict(ctx, req)
		if err != nil {
			return predictionError(counters, err)
		}

		counters.RecordPrediction()
		return c.JSON(result)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		// Startup fails fast on any missing artifact, so a serving process
		// always has everything loaded; the flags remain for the external
		// poller's contract.
		meta := service.Metadata()
		return c.JSON(fiber.Map{
			"status":                 "healthy",
			"model_loaded":           true,
			"historical_data_loaded": true,
			"metadata_loaded":        true,
			"model_version":          meta.ModelVersion,
			"training_date":          meta.TrainingDate,
		})
	})

	app.Get("/model_info", func(c *fiber.Ctx) error {
		return c.JSON(service.ModelInfo())
	})
}

// predictionError maps service failures onto the response taxonomy:
// client-correctable input problems become 4xx, deterministic inference
// failures become an opaque 500, timeouts become 503.
func predictionError(counters *metrics.Counters, err error) error {
	var vErr *forecast.ValidationError
	if errors.As(err, &vErr) {
		counters.RecordValidationFailure()
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	}

	var iErr *forecast.InferenceError
	if errors.As(err, &iErr) {
		counters.RecordInferenceFailure()
		log.Printf("ERROR: inference failed at stage %s: %v", iErr.Stage, iErr.Err)
		return fiber.NewError(fiber.StatusInternalServerError, "prediction error")
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "prediction timed out")
	}

	log.Printf("ERROR: prediction failed: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "prediction error")
}

// validationDetail renders the first validation failure as a client-facing
// message naming the offending field.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return "field " + fe.Field() + " is required"
		case "gte":
			return "field " + fe.Field() + " must be at least " + fe.Param()
		case "lte":
			return "field " + fe.Field() + " must be at most " + fe.Param()
		}
		return "field " + fe.Field() + " is invalid"
	}
	return err.Error()
}
