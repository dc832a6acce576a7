package evolution

import (
	"encoding/json"
	"fmt"
)

// APIError is returned when the gateway answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("evolution api error: status=%d body=%s", e.StatusCode, e.Body)
}

type WebhookConfig struct {
	URL      string   `json:"url"`
	ByEvents bool     `json:"byEvents"`
	Base64   bool     `json:"base64"`
	Events   []string `json:"events"`
}

type CreateInstanceRequest struct {
	InstanceName string         `json:"instanceName"`
	QRCode       bool           `json:"qrcode"`
	Integration  string         `json:"integration"`
	RejectCall   *bool          `json:"rejectCall,omitempty"`
	GroupsIgnore *bool          `json:"groupsIgnore,omitempty"`
	Webhook      *WebhookConfig `json:"webhook,omitempty"`
}

type QRCode struct {
	PairingCode string `json:"pairingCode"`
	Code        string `json:"code"`
	Base64      string `json:"base64"`
	Count       int    `json:"count"`
}

type CreateInstanceResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		InstanceID   string `json:"instanceId"`
		Status       string `json:"status"`
	} `json:"instance"`
	Hash   json.RawMessage `json:"hash"`
	QRCode *QRCode         `json:"qrcode"`
}

type ConnectionState struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	} `json:"instance"`
}

// InstanceInfo is one entry of fetchInstances. Gateways before v2 nest the
// fields under "instance"; Normalize folds them back.
type InstanceInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ConnectionStatus string `json:"connectionStatus"`
	OwnerJid         string `json:"ownerJid"`
	ProfileName      string `json:"profileName"`
	Number           string `json:"number"`
	CreatedAt        string `json:"createdAt"`

	Legacy *struct {
		InstanceName string `json:"instanceName"`
		InstanceID   string `json:"instanceId"`
		Owner        string `json:"owner"`
		ProfileName  string `json:"profileName"`
		Status       string `json:"status"`
	} `json:"instance,omitempty"`
}

func (i InstanceInfo) Normalize() InstanceInfo {
	if i.Legacy == nil {
		return i
	}
	out := i
	if out.Name == "" {
		out.Name = i.Legacy.InstanceName
	}
	if out.ID == "" {
		out.ID = i.Legacy.InstanceID
	}
	if out.OwnerJid == "" {
		out.OwnerJid = i.Legacy.Owner
	}
	if out.ProfileName == "" {
		out.ProfileName = i.Legacy.ProfileName
	}
	if out.ConnectionStatus == "" {
		out.ConnectionStatus = i.Legacy.Status
	}
	out.Legacy = nil
	return out
}

type Settings struct {
	RejectCall      bool   `json:"rejectCall"`
	MsgCall         string `json:"msgCall"`
	GroupsIgnore    bool   `json:"groupsIgnore"`
	AlwaysOnline    bool   `json:"alwaysOnline"`
	ReadMessages    bool   `json:"readMessages"`
	ReadStatus      bool   `json:"readStatus"`
	SyncFullHistory bool   `json:"syncFullHistory"`
}

type Proxy struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Protocol string `json:"protocol"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type SendResult struct {
	Key struct {
		RemoteJid string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

type CreateGroupRequest struct {
	Subject      string   `json:"subject"`
	Description  string   `json:"description,omitempty"`
	Participants []string `json:"participants"`
}

type GroupInfo struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Desc         string `json:"desc"`
	Owner        string `json:"owner"`
	Size         int    `json:"size"`
	Participants []struct {
		ID    string `json:"id"`
		Admin string `json:"admin"`
	} `json:"participants"`
}
