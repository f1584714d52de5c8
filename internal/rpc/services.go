package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully-qualified service names.
const (
	GroupServiceName   = "payshare.v1.GroupService"
	ExpenseServiceName = "payshare.v1.ExpenseService"
	AuthServiceName    = "payshare.v1.AuthService"
	HealthServiceName  = "payshare.v1.HealthService"
)

// Procedure paths, as they appear in the URL and in req.Spec().Procedure.
const (
	GroupServiceCreateGroupProcedure         = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListGroupsProcedure          = "/" + GroupServiceName + "/ListGroups"
	GroupServiceGetGroupProcedure            = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupExpensesProcedure   = "/" + GroupServiceName + "/ListGroupExpenses"
	GroupServiceGetGroupFairnessProcedure    = "/" + GroupServiceName + "/GetGroupFairness"
	GroupServiceGetGroupSettlementsProcedure = "/" + GroupServiceName + "/GetGroupSettlements"

	ExpenseServiceCreateExpenseProcedure      = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceSplitEquallyProcedure       = "/" + ExpenseServiceName + "/SplitEqually"
	ExpenseServiceListRecentActivityProcedure = "/" + ExpenseServiceName + "/ListRecentActivity"

	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	HealthServiceCheckProcedure = "/" + HealthServiceName + "/Check"
)

// route dispatches on the exact procedure path below a service prefix.
func route(serviceName string, handlers map[string]http.Handler) (string, http.Handler) {
	return "/" + serviceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error)
	GetGroupFairness(context.Context, *connect.Request[GetGroupFairnessRequest]) (*connect.Response[GetGroupFairnessResponse], error)
	GetGroupSettlements(context.Context, *connect.Request[GetGroupSettlementsRequest]) (*connect.Response[GetGroupSettlementsResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(GroupServiceName, map[string]http.Handler{
		GroupServiceCreateGroupProcedure:         connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceListGroupsProcedure:          connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceGetGroupProcedure:            connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupExpensesProcedure:   connect.NewUnaryHandler(GroupServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts...),
		GroupServiceGetGroupFairnessProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupFairnessProcedure, svc.GetGroupFairness, opts...),
		GroupServiceGetGroupSettlementsProcedure: connect.NewUnaryHandler(GroupServiceGetGroupSettlementsProcedure, svc.GetGroupSettlements, opts...),
	})
}

// GroupServiceClient calls a remote GroupService.
type GroupServiceClient interface {
	GroupServiceHandler
}

type groupServiceClient struct {
	createGroup         *connect.Client[CreateGroupRequest, CreateGroupResponse]
	listGroups          *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getGroup            *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroupExpenses   *connect.Client[ListGroupExpensesRequest, ListGroupExpensesResponse]
	getGroupFairness    *connect.Client[GetGroupFairnessRequest, GetGroupFairnessResponse]
	getGroupSettlements *connect.Client[GetGroupSettlementsRequest, GetGroupSettlementsResponse]
}

// NewGroupServiceClient creates a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:         connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		listGroups:          connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		getGroup:            connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroupExpenses:   connect.NewClient[ListGroupExpensesRequest, ListGroupExpensesResponse](httpClient, baseURL+GroupServiceListGroupExpensesProcedure, opts...),
		getGroupFairness:    connect.NewClient[GetGroupFairnessRequest, GetGroupFairnessResponse](httpClient, baseURL+GroupServiceGetGroupFairnessProcedure, opts...),
		getGroupSettlements: connect.NewClient[GetGroupSettlementsRequest, GetGroupSettlementsResponse](httpClient, baseURL+GroupServiceGetGroupSettlementsProcedure, opts...),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupFairness(ctx context.Context, req *connect.Request[GetGroupFairnessRequest]) (*connect.Response[GetGroupFairnessResponse], error) {
	return c.getGroupFairness.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupSettlements(ctx context.Context, req *connect.Request[GetGroupSettlementsRequest]) (*connect.Response[GetGroupSettlementsResponse], error) {
	return c.getGroupSettlements.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	SplitEqually(context.Context, *connect.Request[SplitEquallyRequest]) (*connect.Response[SplitEquallyResponse], error)
	ListRecentActivity(context.Context, *connect.Request[ListRecentActivityRequest]) (*connect.Response[ListRecentActivityResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(ExpenseServiceName, map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure:      connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceSplitEquallyProcedure:       connect.NewUnaryHandler(ExpenseServiceSplitEquallyProcedure, svc.SplitEqually, opts...),
		ExpenseServiceListRecentActivityProcedure: connect.NewUnaryHandler(ExpenseServiceListRecentActivityProcedure, svc.ListRecentActivity, opts...),
	})
}

// ExpenseServiceClient calls a remote ExpenseService.
type ExpenseServiceClient interface {
	ExpenseServiceHandler
}

type expenseServiceClient struct {
	createExpense      *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	splitEqually       *connect.Client[SplitEquallyRequest, SplitEquallyResponse]
	listRecentActivity *connect.Client[ListRecentActivityRequest, ListRecentActivityResponse]
}

// NewExpenseServiceClient creates a client for the ExpenseService at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense:      connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		splitEqually:       connect.NewClient[SplitEquallyRequest, SplitEquallyResponse](httpClient, baseURL+ExpenseServiceSplitEquallyProcedure, opts...),
		listRecentActivity: connect.NewClient[ListRecentActivityRequest, ListRecentActivityResponse](httpClient, baseURL+ExpenseServiceListRecentActivityProcedure, opts...),
	}
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) SplitEqually(ctx context.Context, req *connect.Request[SplitEquallyRequest]) (*connect.Response[SplitEquallyResponse], error) {
	return c.splitEqually.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListRecentActivity(ctx context.Context, req *connect.Request[ListRecentActivityRequest]) (*connect.Response[ListRecentActivityResponse], error) {
	return c.listRecentActivity.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(AuthServiceName, map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

// AuthServiceClient calls a remote AuthService.
type AuthServiceClient interface {
	AuthServiceHandler
}

type authServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient creates a client for the AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// HealthServiceHandler is implemented by the health service.
type HealthServiceHandler interface {
	Check(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error)
}

// NewHealthServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewHealthServiceHandler(svc HealthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(HealthServiceName, map[string]http.Handler{
		HealthServiceCheckProcedure: connect.NewUnaryHandler(HealthServiceCheckProcedure, svc.Check, opts...),
	})
}

// HealthServiceClient calls a remote HealthService.
type HealthServiceClient interface {
	HealthServiceHandler
}

type healthServiceClient struct {
	check *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewHealthServiceClient creates a client for the HealthService at baseURL.
func NewHealthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HealthServiceClient {
	return &healthServiceClient{
		check: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, trimBase(baseURL)+HealthServiceCheckProcedure, clientOptions(opts)...),
	}
}

func (c *healthServiceClient) Check(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	return c.check.CallUnary(ctx, req)
}
