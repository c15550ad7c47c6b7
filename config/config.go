package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Media  MediaConfig
	Cart   CartConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type MediaConfig struct {
	// Backend selects the media host implementation: "cloudinary" or "gcs".
	Backend        string
	CloudinaryURL  string
	GCSBucket      string
	GCSCredentials string
	UploadFolder   string
}

type CartConfig struct {
	SessionTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "velora")
	viper.SetDefault("MEDIA_BACKEND", "cloudinary")
	viper.SetDefault("MEDIA_UPLOAD_FOLDER", "variantImage")
	viper.SetDefault("CART_SESSION_TTL_MINUTES", 120)

	origins := make([]string, 0)
	for _, o := range strings.Split(viper.GetString("ALLOWED_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("DATABASE_NAME"),
		},
		Media: MediaConfig{
			Backend:        viper.GetString("MEDIA_BACKEND"),
			CloudinaryURL:  viper.GetString("CLOUDINARY_URL"),
			GCSBucket:      viper.GetString("GCS_BUCKET"),
			GCSCredentials: viper.GetString("CREDENTIALS_FILE_LOCATION"),
			UploadFolder:   viper.GetString("MEDIA_UPLOAD_FOLDER"),
		},
		Cart: CartConfig{
			SessionTTL: time.Duration(viper.GetInt("CART_SESSION_TTL_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
	}
}
