package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type enrolledDevice struct {
	DeviceID    string
	Certificate string
}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	devices := make([]enrolledDevice, maxDevices)

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			devices[i] = enrollDevice(i)
			fmt.Printf("\renrolled device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\renrolled %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(devices[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func postJSON(url string, payload any, headers map[string]string) map[string]any {
	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("POST %s -> %v: %v", url, resp.StatusCode, body))
	}
	return body
}

func enrollDevice(i int) enrolledDevice {
	codeResp := postJSON(
		fmt.Sprintf("http://%s/api/admin/enrollment-codes", httpHostPort),
		map[string]string{
			"seniorId":   fmt.Sprintf("senior-%v", i),
			"seniorName": fmt.Sprintf("Senior %v", i),
		},
		nil,
	)

	enrollResp := postJSON(
		fmt.Sprintf("http://%s/api/mdm/enroll", httpHostPort),
		map[string]any{
			"enrollmentCode": codeResp["code"],
			"deviceInfo": map[string]string{
				"model":      "BenchTab A10",
				"osVersion":  "14",
				"appVersion": "2.1.0",
			},
		},
		nil,
	)

	return enrolledDevice{
		DeviceID:    enrollResp["deviceId"].(string),
		Certificate: enrollResp["certificate"].(string),
	}
}

func doAction(device enrolledDevice) {
	actions := []func(){
		genHeartbeatAction(device),
		genHeartbeatAction(device),
		genEmergencyAction(device),
	}
	actionNames := []string{
		"Heartbeat",
		"Heartbeat",
		"Emergency",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], device.DeviceID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func deviceHeaders(device enrolledDevice) map[string]string {
	return map[string]string{
		"X-Device-ID":          device.DeviceID,
		"X-Device-Certificate": device.Certificate,
	}
}

func genHeartbeatAction(device enrolledDevice) func() {
	return func() {
		payload := map[string]any{
			"batteryLevel": rndFloat64(0.0, 100.0, 2),
			"status":       "online",
		}
		if flipCoin() {
			payload["location"] = map[string]float64{
				"latitude":  rndFloat64(-90.0, 90.0, 6),
				"longitude": rndFloat64(-180.0, 180.0, 6),
				"accuracy":  rndFloat64(1.0, 50.0, 2),
			}
		}
		postJSON(
			fmt.Sprintf("http://%s/api/mdm/heartbeat", httpHostPort),
			payload,
			deviceHeaders(device),
		)
	}
}

func genEmergencyAction(device enrolledDevice) func() {
	return func() {
		alertType := "panic"
		if flipCoin() {
			alertType = "fall_detected"
		}
		postJSON(
			fmt.Sprintf("http://%s/api/mdm/emergency", httpHostPort),
			map[string]any{
				"alertType": alertType,
				"message":   "benchmark alert",
			},
			deviceHeaders(device),
		)
	}
}
