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

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/mqtt"
)

var maxChildren int = 1000
var httpHostPort string = "127.0.0.1:1080"
var mqttBroker string = "tcp://127.0.0.1:1883"

var mqttClient paho.Client

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

// every family lives around the same district so zones overlap realistically
var home = geo.Point{Latitude: 10.8484, Longitude: 106.7730}

type family struct {
	parentID string
	childID  string
	school   geo.Point
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

	// the server must share this database (SAFEKIDS_DB_TYPE=file with the same SAFEKIDS_DB_PATH)
	dbInstance := db.GetInstance(db.UseSqliteDialector())
	families := make([]family, maxChildren)
	for i := range maxChildren {
		families[i] = family{
			parentID: uuid.NewString(),
			childID:  uuid.NewString(),
			school:   geo.OffsetNorth(home, rndFloat64(500, 3000, 1)),
		}
		seedFamily(dbInstance, families[i])
	}
	fmt.Printf("seeded %v families\n", maxChildren)

	if mqttClient, err = mqtt.NewClient(mqttBroker, "safekids-child1k-"+uuid.NewString()); err != nil {
		fmt.Printf("mqtt not available, all reports go over http: %v\n", err)
	} else {
		defer mqttClient.Disconnect(250)
		fmt.Printf("mqtt broker connected\n")
	}

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxChildren {
		wg.Add(1)
		go func() {
			createSchoolZone(families[i])
			fmt.Printf("\rcreated geofence for child %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rcreated geofences for %v children: used time=%v seconds, throughput=%v action/second\n",
		maxChildren, usedTime.Seconds(), float64(maxChildren)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxChildren {
		wg.Add(1)
		go func() {
			doAction(families[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v children: used time=%v seconds, throughput=%v action/second\n",
		maxChildren, usedTime.Seconds(), float64(maxChildren*4)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func seedFamily(d *db.DB, f family) {
	token := "bench-" + f.parentID
	if err := d.Conn.Create(&models.User{ID: f.parentID, FullName: "Phụ huynh " + f.parentID[:8], Role: models.UserRoleParent, FCMToken: &token}).Error; err != nil {
		log.Fatal("Failed to seed parent:", err)
	}
	if err := d.Conn.Create(&models.User{ID: f.childID, FullName: "Bé " + f.childID[:8], Role: models.UserRoleChild}).Error; err != nil {
		log.Fatal("Failed to seed child:", err)
	}
	if err := d.Conn.Create(&models.ParentChild{ParentID: f.parentID, ChildID: f.childID}).Error; err != nil {
		log.Fatal("Failed to seed link:", err)
	}
}

func send(method, path, userID string, payload any) (*http.Response, error) {
	var body *bytes.Buffer = &bytes.Buffer{}
	if payload != nil {
		jsonData, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonData)
	}
	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", httpHostPort, path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", userID)
	return http.DefaultClient.Do(req)
}

func createSchoolZone(f family) {
	resp, err := send(http.MethodPost, "/geofences", f.parentID, map[string]any{
		"name":           "Trường học",
		"type":           "safe",
		"centerLat":      f.school.Latitude,
		"centerLng":      f.school.Longitude,
		"radius":         150,
		"linkedChildren": []string{f.childID},
	})
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		panic(fmt.Sprintf("create geofence: status %v", resp.StatusCode))
	}
}

func doAction(f family) {
	actions := []func(){
		genReportLocationAction(f, f.school),
		genReportLocationAction(f, geo.OffsetNorth(f.school, rndFloat64(400, 900, 1))),
		genGetAlertsAction(f),
		genGetSuggestionsAction(f),
	}
	actionNames := []string{
		"ReportInside",
		"ReportOutside",
		"GetAlerts",
		"GetSuggestions",
	}
	// the two reports keep their order so every child crosses its zone boundary
	if flipCoin() {
		actions[2], actions[3] = actions[3], actions[2]
		actionNames[2], actionNames[3] = actionNames[3], actionNames[2]
	}
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for child %v", actionNames[index], f.childID)
		time.Sleep(time.Duration(rndFloat64(100, 1100, 0)) * time.Millisecond)
	}
}

func genReportLocationAction(f family, p geo.Point) func() {
	return func() {
		payload := map[string]any{
			"latitude":     p.Latitude,
			"longitude":    p.Longitude,
			"accuracy":     rndFloat64(3, 25, 1),
			"batteryLevel": int(rndFloat64(5, 100, 0)),
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		}

		if mqttClient == nil || flipCoin() {
			resp, err := send(http.MethodPost, "/children/"+f.childID+"/locations", f.childID, payload)
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				fmt.Printf("\nresponse status code != 201: %v\n", resp)
			}
		} else {
			jsonData, _ := json.Marshal(payload)
			token := mqttClient.Publish(fmt.Sprintf("safekids/child/%s/location", f.childID), mqtt.DefaultQoS, false, jsonData)
			if token.Wait() && token.Error() != nil {
				fmt.Printf("\nerror: %v\n", token.Error())
			}
		}
	}
}

func genGetAlertsAction(f family) func() {
	return func() {
		resp, err := send(http.MethodGet, "/geofences/alerts?childId="+f.childID, f.parentID, nil)
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}

func genGetSuggestionsAction(f family) func() {
	return func() {
		resp, err := send(http.MethodGet, "/geofences/suggestions/"+f.childID, f.parentID, nil)
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}
