package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/esimov/drowsy"
	"github.com/esimov/drowsy/alarm"
	"github.com/esimov/drowsy/cv"
	"github.com/esimov/drowsy/utils"
	"github.com/joho/godotenv"
)

const HelpBanner = `
┌┬┐┬─┐┌─┐┬ ┬┌─┐┬ ┬
 ││├┬┘│ ││││└─┐└┬┘
─┴┘┴└─└─┘└┴┘└─┘ ┴

Real time drowsiness detection.
    Version: %s

`

const windowTitle = "Drowsiness Detector"

// Version indicates the current build version.
var Version string

// envErr is set when no .env file could be loaded. The environment is read
// before the flags get their defaults, so this declaration must stay first.
var envErr = godotenv.Load()

var (
	// Flags
	alarmFile = flag.String("alarm", envString("DROWSY_ALARM", "alarm.mp3"), "Alarm sound file (empty disables the alarm)")
	camera    = flag.Int("cam", envInt("DROWSY_CAM", 0), "Video capture device index")
	detector  = flag.String("detector", envString("DROWSY_DETECTOR", "pigo"), "Face detector: pigo or haar")
	cascade   = flag.String("cascade", envString("DROWSY_CASCADE", ""), "Face cascade file (pigo facefinder or Haar xml)")
	puploc    = flag.String("puploc", envString("DROWSY_PUPLOC", "cascade/puploc"), "Pupil localization cascade")
	model     = flag.String("model", envString("DROWSY_MODEL", "drowsiness.onnx"), "Eye openness classifier model")
	threshold = flag.Float64("threshold", envFloat("DROWSY_THRESHOLD", drowsy.ClosedThreshold), "Closed eye score threshold")
	frames    = flag.Int("frames", envInt("DROWSY_FRAMES", drowsy.ClosedFrames), "Consecutive closed eye frames raising the alarm")
	logFile   = flag.String("log", envString("DROWSY_LOG", ""), "Log file")
	debug     = flag.Bool("debug", false, "Debug logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	isTerm := utils.IsTerminal(os.Stderr)
	if !isTerm {
		utils.DisableColors()
	}
	logger := utils.NewLogger(utils.LogOptions{
		File:     *logFile,
		Debug:    *debug,
		NoColors: !isTerm,
	})
	if envErr != nil {
		logger.WithError(envErr).Debug("no .env file loaded")
	}

	if *threshold <= 0 || *threshold >= 1 {
		log.Fatalf(utils.DecorateText("The threshold should be in the (0, 1) range, got %v\n", utils.ErrorMessage), *threshold)
	}
	if *frames <= 0 {
		log.Fatalf(utils.DecorateText("The number of closed eye frames should be positive, got %d\n", utils.ErrorMessage), *frames)
	}
	if *alarmFile != "" {
		if err := utils.CheckAudio(*alarmFile); err != nil {
			log.Fatalf(
				utils.DecorateText("Invalid alarm file: %v\n", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ DROWSY", utils.StatusMessage),
		utils.DecorateText("is loading the detection models...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*100)

	// Capture CTRL-C signal and restore the cursor visibility back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spinner.Start()
	pipeline, classifier, err := loadModels()
	if err != nil {
		spinner.Stop()
		log.Fatalf(
			utils.DecorateText("Failed to load the detection models: %v\n", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	defer classifier.Close()

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ DROWSY", utils.StatusMessage),
		utils.DecorateText("is loading the detection models... ✔", utils.DefaultMessage))
	spinner.Stop()

	cam, err := cv.OpenCamera(*camera)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to open the camera: %v\n", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	var alerter drowsy.Alerter
	if *alarmFile != "" {
		alerter = alarm.NewPlayer(*alarmFile, logger)
	}

	monitor := drowsy.NewMonitor(cam, cv.NewWindow(windowTitle), pipeline, classifier, alerter, logger)
	monitor.Session.Threshold = *threshold
	monitor.Session.Debounce = *frames
	defer monitor.Close()

	logger.WithField("detector", *detector).Info("monitoring started, press q to quit")

	now := time.Now()
	if err := monitor.Run(ctx); err != nil {
		logger.WithError(err).Error("monitoring failed")
	}
	elapsed := time.Since(now)

	fmt.Fprintf(os.Stderr, "\nProcessed frames: %s (%s), alerts: %s\n",
		utils.DecorateText(strconv.Itoa(monitor.Stats.Processed), utils.SuccessMessage),
		utils.FormatRate(monitor.Stats.Processed, elapsed),
		utils.DecorateText(strconv.Itoa(monitor.Stats.Alerts), utils.AlertMessage),
	)
	fmt.Fprintf(os.Stderr, "Execution time: %s\n", utils.DecorateText(utils.FormatTime(elapsed), utils.SuccessMessage))
}

// loadModels creates the frame to eyes pipeline and the eye openness classifier.
func loadModels() (*drowsy.Pipeline, *cv.NetClassifier, error) {
	var (
		faceDetector drowsy.FaceDetector
		err          error
	)
	switch *detector {
	case "pigo":
		faceDetector, err = pigoDetector(orDefault(*cascade, "cascade/facefinder"))
	case "haar":
		faceDetector, err = cv.NewCascadeDetector(orDefault(*cascade, "haarcascade_frontalface_alt.xml"))
	default:
		err = fmt.Errorf("unknown face detector %q", *detector)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := utils.CheckAsset(*puploc); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(*puploc)
	if err != nil {
		return nil, nil, err
	}
	predictor, err := drowsy.NewPupilPredictor(data)
	if err != nil {
		return nil, nil, err
	}

	classifier, err := cv.NewNetClassifier(*model)
	if err != nil {
		return nil, nil, err
	}
	return drowsy.NewPipeline(faceDetector, predictor), classifier, nil
}

func pigoDetector(path string) (*drowsy.PigoDetector, error) {
	if err := utils.CheckAsset(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return drowsy.NewPigoDetector(data)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}
