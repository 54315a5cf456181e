package config

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

var InstanceId string

// LoadEnv reads ./.env when present. Real environment variables always win.
func LoadEnv(service string) {
	log.Infof("%s service configuration and env variables loading started ...", service)
	err := godotenv.Load("./.env")
	if err != nil {
		log.Warnf("no .env file loaded, using process environment: %s", err)
		return
	}

	log.Info(".env file loaded.")
}

func CreateUniqueInstance(service string) string {
	id, err := uuid.NewV4() // instance identifier
	if err != nil {
		log.Errorf("error generating instanceId: %s", err)
		os.Exit(1)
	}
	InstanceId = id.String()
	log.Infof(service+" service with Instance ID: %s is ready", id)
	return id.String()
}

func CORS(origins []string) *cors.Cors {
	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return corsOptions
}

// Logging sends logrus output to <LOG_DIR>/<service>.log. LOG_DIR=- keeps stderr.
func Logging(service string) {
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	log.SetFormatter(&log.TextFormatter{})

	logFolder := os.Getenv("LOG_DIR")
	if logFolder == "-" {
		return
	}
	if logFolder == "" {
		logFolder = ".l_g"
	}

	_, err := os.Stat(logFolder)
	if os.IsNotExist(err) {
		err = os.MkdirAll(logFolder, 0755)
		if err != nil {
			log.Warnf("unable to create folder for log %s", err)
			return
		}
	}

	logFilePath := filepath.Join(logFolder, service+".log")

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}

	log.SetOutput(file)

	log.Infof("log to file started for service: %s", service)
}

func CustomLoggerMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.WithField("request_id", middleware.GetReqID(r.Context())).Printf("%s %s %s %d %s %s",
					r.Method,
					r.RequestURI,
					r.RemoteAddr,
					ww.Status(),
					http.StatusText(ww.Status()),
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
