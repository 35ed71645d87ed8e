package devserver

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	protected := s.APIMiddleware(s.RequireAuth())

	s.RegisterRouteFunc(RouteLogin, ChainMiddleware(s.handleLogin, public...))
	s.RegisterRouteFunc(RouteSignup, ChainMiddleware(s.handleSignup, public...))
	s.RegisterRouteFunc(RouteRefresh, ChainMiddleware(s.handleRefresh, public...))

	s.RegisterRouteFunc(RouteListGyms, ChainMiddleware(s.handleListGyms, protected...))
	s.RegisterRouteFunc(RouteCreateGym, ChainMiddleware(s.handleCreateGym, protected...))

	s.RegisterRouteFunc(RouteListMembers, ChainMiddleware(s.handleListMembers, protected...))
	s.RegisterRouteFunc(RouteCreateMember, ChainMiddleware(s.handleCreateMember, protected...))
	s.RegisterRouteFunc(RouteExpiringMembers, ChainMiddleware(s.handleExpiringMembers, protected...))
	s.RegisterRouteFunc(RouteUpdateMember, ChainMiddleware(s.handleUpdateMember, protected...))
	s.RegisterRouteFunc(RouteDeleteMember, ChainMiddleware(s.handleDeleteMember, protected...))

	s.RegisterRouteFunc(RouteCheckout, ChainMiddleware(s.handleCheckout, protected...))
}
