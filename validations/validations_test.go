package validations

import (
	"context"
	"strings"
	"testing"

	domainAdmin "github.com/nicdemeagbeve-afk/synapse/domains/admin"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/stretchr/testify/assert"
)

func TestValidateSavePrompt(t *testing.T) {
	ctx := context.Background()

	short := &domainPrompt.SaveRequest{MainPrompt: "  trop  "}
	err := ValidateSavePrompt(ctx, short)
	assert.IsType(t, pkgError.ValidationError(""), err)

	long := &domainPrompt.SaveRequest{MainPrompt: strings.Repeat("é", 1001)}
	assert.Error(t, ValidateSavePrompt(ctx, long))

	ok := &domainPrompt.SaveRequest{MainPrompt: "  Réponds toujours poliment.  "}
	assert.NoError(t, ValidateSavePrompt(ctx, ok))
	assert.Equal(t, "Réponds toujours poliment.", ok.MainPrompt)
}

func TestValidateUpdateProfile(t *testing.T) {
	ctx := context.Background()

	age := 0
	assert.Error(t, ValidateUpdateProfile(ctx, &domainProfile.UpdateRequest{Age: &age}))
	age = 121
	assert.Error(t, ValidateUpdateProfile(ctx, &domainProfile.UpdateRequest{Age: &age}))
	assert.Error(t, ValidateUpdateProfile(ctx, &domainProfile.UpdateRequest{PhoneNumber: "call me"}))

	age = 34
	assert.NoError(t, ValidateUpdateProfile(ctx, &domainProfile.UpdateRequest{FirstName: "Awa", PhoneNumber: "+225 07 00 00 00", Age: &age}))
	assert.NoError(t, ValidateUpdateProfile(ctx, &domainProfile.UpdateRequest{}))
}

func TestValidateCreateGroup(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, ValidateCreateGroup(ctx, &domainInstance.CreateGroupRequest{GroupName: "Team"}))
	assert.Error(t, ValidateCreateGroup(ctx, &domainInstance.CreateGroupRequest{GroupName: "Team", Participants: []string{" ", ""}}))
	assert.Error(t, ValidateCreateGroup(ctx, &domainInstance.CreateGroupRequest{Participants: []string{"336"}}))

	req := &domainInstance.CreateGroupRequest{GroupName: " Team ", Participants: []string{"33612345678", " "}}
	assert.NoError(t, ValidateCreateGroup(ctx, req))
	assert.Equal(t, []string{"33612345678"}, req.Participants)
	assert.Equal(t, "Team", req.GroupName)
}

func TestValidateUpdateStatus(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateUpdateStatus(ctx, &domainChat.UpdateStatusRequest{Status: domainChat.StatusClosed}))
	assert.Error(t, ValidateUpdateStatus(ctx, &domainChat.UpdateStatusRequest{Status: "archived"}))
	assert.Error(t, ValidateUpdateStatus(ctx, &domainChat.UpdateStatusRequest{}))
}

func TestValidateProxy(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateProxy(ctx, &domainAdmin.Proxy{Enabled: false}))
	assert.Error(t, ValidateProxy(ctx, &domainAdmin.Proxy{Enabled: true, Host: "10.0.0.1"}))
	assert.NoError(t, ValidateProxy(ctx, &domainAdmin.Proxy{Enabled: true, Host: "10.0.0.1", Port: "3128", Protocol: "http"}))
}
