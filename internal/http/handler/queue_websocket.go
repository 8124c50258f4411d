package handler

import (
	"time"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/helper"
	"backend-sevapali/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// DashboardWS - dashboards and display boards subscribe here and
// receive every scheduler change event as JSON. The first frame tells
// the client whether the office is currently open.
func DashboardWS(c *websocket.Conn) {
	realtime.Dashboards.Register <- c
	defer func() {
		realtime.Dashboards.Unregister <- c
	}()

	officeID := c.Query("office_id")
	if officeID != "" {
		var openTime, closeTime string
		err := config.DB.QueryRow(`
			SELECT open_time, close_time FROM offices WHERE id = ?
		`, officeID).Scan(&openTime, &closeTime)

		if err == nil {
			status := "open"
			if !helper.IsOfficeOpen(openTime, closeTime) {
				status = "closed"
			}
			_ = c.WriteJSON(fiber.Map{
				"type":       "status",
				"office":     status,
				"open_time":  openTime,
				"close_time": closeTime,
				"date":       helper.ServiceDate(time.Now()),
			})
		}
	}

	// listen until the client goes away
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
