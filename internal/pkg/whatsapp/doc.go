// Package whatsapp provides a small client for sending WhatsApp messages
// through a Twilio-compatible messaging gateway.
package whatsapp
